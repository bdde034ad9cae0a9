package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carshare/internal/domain"
	"carshare/internal/middleware"
	"carshare/internal/service"
)

const dateLayout = "2006-01-02"

// RentalHandler handles HTTP requests for rentals.
type RentalHandler struct {
	rentalService *service.RentalService
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(rentalService *service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// CreateRentalRequest is the HTTP request body for opening a rental.
type CreateRentalRequest struct {
	CarID      string `json:"car_id"`
	UserID     string `json:"user_id,omitempty"`
	RentalDate string `json:"rental_date"`
	ReturnDate string `json:"return_date"`
}

// RentalResponse is the HTTP response for rental data.
type RentalResponse struct {
	ID               string `json:"id"`
	CarID            string `json:"car_id"`
	UserID           string `json:"user_id"`
	RentalDate       string `json:"rental_date"`
	ReturnDate       string `json:"return_date"`
	ActualReturnDate string `json:"actual_return_date,omitempty"`
	Active           bool   `json:"active"`
}

func toRentalResponse(rental *domain.Rental) RentalResponse {
	response := RentalResponse{
		ID:         rental.ID,
		CarID:      rental.CarID,
		UserID:     rental.UserID,
		RentalDate: rental.RentalDate.Format(dateLayout),
		ReturnDate: rental.ReturnDate.Format(dateLayout),
		Active:     rental.IsActive(),
	}
	if rental.ActualReturnDate != nil {
		response.ActualReturnDate = rental.ActualReturnDate.Format(dateLayout)
	}
	return response
}

// Create handles POST /v1/rentals
func (h *RentalHandler) Create(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	rentalDate, err := time.Parse(dateLayout, req.RentalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rental_date must be YYYY-MM-DD"})
		return
	}
	returnDate, err := time.Parse(dateLayout, req.ReturnDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "return_date must be YYYY-MM-DD"})
		return
	}

	rental, err := h.rentalService.CreateRental(c.Request.Context(), service.CreateRentalRequest{
		Actor:      actor,
		CarID:      req.CarID,
		UserID:     req.UserID,
		RentalDate: rentalDate,
		ReturnDate: returnDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, toRentalResponse(rental))
}

// List handles GET /v1/rentals?user_id=&is_active=
func (h *RentalHandler) List(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	req := service.ListRentalsRequest{Actor: actor}
	if userID := c.Query("user_id"); userID != "" {
		req.UserID = &userID
	}
	if activeParam := c.Query("is_active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "is_active must be a boolean"})
			return
		}
		req.IsActive = &active
	}

	rentals, err := h.rentalService.ListRentals(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response := []RentalResponse{}
	for i := range rentals {
		response = append(response, toRentalResponse(&rentals[i]))
	}
	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/rentals/:id
func (h *RentalHandler) Get(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	rental, err := h.rentalService.GetRental(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRentalResponse(rental))
}

// Complete handles POST /v1/rentals/:id/return
func (h *RentalHandler) Complete(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	rental, err := h.rentalService.CompleteRental(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toRentalResponse(rental))
}
