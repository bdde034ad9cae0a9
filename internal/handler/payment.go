package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carshare/internal/domain"
	"carshare/internal/middleware"
	"carshare/internal/service"
)

// PaymentHandler handles HTTP requests for payments, including the gateway
// callback endpoints.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest is the HTTP request body for opening a checkout session.
type CreatePaymentRequest struct {
	RentalID string `json:"rental_id"`
	Kind     string `json:"kind"`
}

// PaymentResponse is the HTTP response for payment data.
type PaymentResponse struct {
	ID          string `json:"id"`
	RentalID    string `json:"rental_id"`
	Status      string `json:"status"`
	Kind        string `json:"kind"`
	SessionID   string `json:"session_id"`
	SessionURL  string `json:"session_url,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		RentalID:    payment.RentalID,
		Status:      string(payment.Status),
		Kind:        string(payment.Kind),
		SessionID:   payment.SessionID,
		SessionURL:  payment.SessionURL,
		AmountCents: payment.AmountCents,
	}
}

// Create handles POST /v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.paymentService.CreateSession(c.Request.Context(), service.CreateSessionRequest{
		Actor:    actor,
		RentalID: req.RentalID,
		Kind:     req.Kind,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// List handles GET /v1/payments?user_id=
func (h *PaymentHandler) List(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	payments, err := h.paymentService.ListPayments(c.Request.Context(), service.ListPaymentsRequest{
		Actor:  actor,
		UserID: c.Query("user_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := []PaymentResponse{}
	for i := range payments {
		response = append(response, toPaymentResponse(&payments[i].Payment))
	}
	respondJSON(c, http.StatusOK, response)
}

// Success handles GET /v1/payments/success?session_id=
// The payment gateway redirects here after a completed checkout. Retries are
// safe: confirming an already-paid session is a no-op.
func (h *PaymentHandler) Success(c *gin.Context) {
	payment, err := h.paymentService.ConfirmSuccess(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"message": "payment successful",
		"payment": toPaymentResponse(payment),
	})
}

// Cancel handles GET /v1/payments/cancel?session_id=
// The payment gateway redirects here when the user abandons checkout.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	payment, err := h.paymentService.Cancel(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"message": "payment cancelled, you can retry later",
		"payment": toPaymentResponse(payment),
	})
}
