package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sajithmohammed-livelocal/uber-taxi/internal/repository"
	"github.com/sajithmohammed-livelocal/uber-taxi/internal/service"
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
	case errors.Is(err, service.ErrMissingPickup),
		errors.Is(err, service.ErrMissingDestination),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidTripType),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidFareInput),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrUnknownTransactionRef):
		return http.StatusBadRequest

	// Credential errors
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusUnauthorized

	// Insufficient funds
	case errors.Is(err, service.ErrInsufficientBalance):
		return http.StatusPaymentRequired

	// Conflict errors
	case errors.Is(err, service.ErrTripNotCancellable),
		errors.Is(err, service.ErrTripNotMatched),
		errors.Is(err, service.ErrTripNotInProgress),
		errors.Is(err, service.ErrWalletBusy):
		return http.StatusConflict

	// Simulated gateway declines
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
