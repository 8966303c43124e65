package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inride/internal/repository"
	"inride/internal/service"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

// statusFor maps service and repository errors to HTTP status codes.
// Unrecognized errors are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrAuth),
		errors.Is(err, service.ErrOTPMismatch):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrInsufficientFunds),
		errors.Is(err, service.ErrDriverBalanceLow),
		errors.Is(err, service.ErrCardDeclined):
		return http.StatusPaymentRequired

	case errors.Is(err, service.ErrDriverNotApproved),
		errors.Is(err, service.ErrNotBookingOwner),
		errors.Is(err, service.ErrNotAssignedDriver):
		return http.StatusForbidden

	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateOffer),
		errors.Is(err, service.ErrOfferFareMismatch),
		errors.Is(err, service.ErrActiveBookingExists),
		errors.Is(err, service.ErrDriverHasActiveBooking),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrAlreadyRated),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPhoneTaken),
		errors.Is(err, service.ErrNameTaken):
		return http.StatusConflict

	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidFare),
		errors.Is(err, service.ErrInvalidArrival),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidDriverStatus),
		errors.Is(err, service.ErrSamePickupAndDest),
		errors.Is(err, service.ErrOfferNotFound):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}
