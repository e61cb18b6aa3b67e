package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apexfit/booking-api/internal/application"
	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/pkg/response"
)

// writeDomainError maps domain errors to HTTP statuses and writes the
// error envelope. Unrecognized errors become a 500 with a generic message.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrClassNotFound),
		errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrLocationNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, entity.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, entity.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, entity.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, entity.ErrCapacityExceeded):
		response.Error[any](c, http.StatusConflict, "class is full", nil)
	case errors.Is(err, entity.ErrAlreadyCancelled),
		errors.Is(err, entity.ErrAlreadyCheckedIn):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, entity.ErrCheckInNotOpen),
		errors.Is(err, entity.ErrCheckInClosed):
		response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, entity.ErrTransactionConflict):
		response.Error[any](c, http.StatusConflict, "booking conflict, please retry", nil)
	case errors.Is(err, application.ErrClassIDRequired),
		errors.Is(err, application.ErrInvalidTimeRange),
		errors.Is(err, application.ErrStartTimeInPast):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
