package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carshare/internal/auth"
	"carshare/internal/repository"
	"carshare/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidCarID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidRentalID),
		errors.Is(err, service.ErrInvalidCarType),
		errors.Is(err, service.ErrInvalidInventory),
		errors.Is(err, service.ErrInvalidDailyFee),
		errors.Is(err, service.ErrInvalidRentalPeriod),
		errors.Is(err, service.ErrInvalidPaymentKind),
		errors.Is(err, service.ErrInvalidSessionID),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrCarNotAvailable),
		errors.Is(err, service.ErrRentalAlreadyCompleted),
		errors.Is(err, service.ErrRentalNotCompleted),
		errors.Is(err, service.ErrRentalNotOverdue),
		errors.Is(err, service.ErrPaymentCancelled),
		errors.Is(err, service.ErrPaymentPaid),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Upstream provider failures
	case errors.Is(err, service.ErrPaymentGateway):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
