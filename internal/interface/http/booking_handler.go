package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/application"
	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/pkg/response"
	"github.com/apexfit/booking-api/pkg/validation"
)

type BookingHandler struct {
	Svc    *application.BookingService
	Logger *logrus.Logger
}

func NewBookingHandler(svc *application.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

type createBookingRequest struct {
	Type       string    `json:"type" binding:"required,oneof=class sauna"`
	ClassID    string    `json:"class_id" binding:"required_if=Type class,omitempty,uuid"`
	LocationID string    `json:"location_id" binding:"required,uuid"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

func bookingJSON(b *entity.Booking) gin.H {
	out := gin.H{
		"id":          b.ID,
		"user_id":     b.UserID,
		"type":        b.Type,
		"location_id": b.LocationID,
		"start_time":  b.StartTime,
		"end_time":    b.EndTime,
		"status":      b.Status,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
	}
	if b.ClassID != "" {
		out["class_id"] = b.ClassID
	}
	if b.CheckedInAt != nil {
		out["checked_in_at"] = b.CheckedInAt
	}
	return out
}

func bookingsJSON(bs []*entity.Booking) []gin.H {
	out := make([]gin.H, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingJSON(b))
	}
	return out
}

// Create POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Svc.CreateBooking(c.Request.Context(), application.CreateBookingInput{
		UserID:     c.GetString("userID"),
		Type:       entity.BookingType(req.Type),
		ClassID:    req.ClassID,
		LocationID: req.LocationID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, bookingJSON(b), "booking confirmed", nil)
}

// Cancel POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.Svc.CancelBooking(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingJSON(b), "booking cancelled", nil)
}

// Get GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.Svc.GetBooking(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingJSON(b), "booking", nil)
}

// List GET /api/bookings
func (h *BookingHandler) List(c *gin.Context) {
	bs, err := h.Svc.ListBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingsJSON(bs), "bookings", map[string]any{"count": len(bs)})
}

// ListUpcoming GET /api/bookings/upcoming
func (h *BookingHandler) ListUpcoming(c *gin.Context) {
	bs, err := h.Svc.ListUpcomingBookings(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingsJSON(bs), "upcoming bookings", map[string]any{"count": len(bs)})
}

// HasExisting GET /api/bookings/existing/:classId
// Advisory duplicate check before the client submits a booking.
func (h *BookingHandler) HasExisting(c *gin.Context) {
	has, err := h.Svc.HasExistingBooking(c.Request.Context(), c.GetString("userID"), c.Param("classId"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"has_existing_booking": has}, "existing booking check", nil)
}
