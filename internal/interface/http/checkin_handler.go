package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/application"
	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/pkg/response"
)

type CheckInHandler struct {
	Svc    *application.CheckInService
	Logger *logrus.Logger
}

func NewCheckInHandler(svc *application.CheckInService, logger *logrus.Logger) *CheckInHandler {
	return &CheckInHandler{Svc: svc, Logger: logger}
}

func validationJSON(v entity.CheckInValidation) gin.H {
	out := gin.H{
		"can_check_in": v.CanCheckIn,
		"booking":      bookingJSON(v.Booking),
	}
	if v.Reason != "" {
		out["reason"] = v.Reason
	}
	if v.MinutesUntilOpen > 0 {
		out["minutes_until_open"] = v.MinutesUntilOpen
	}
	return out
}

// Validate GET /api/bookings/:id/checkin
func (h *CheckInHandler) Validate(c *gin.Context) {
	v, err := h.Svc.Validate(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, validationJSON(v), "check-in eligibility", nil)
}

// CheckIn POST /api/bookings/:id/checkin
func (h *CheckInHandler) CheckIn(c *gin.Context) {
	b, err := h.Svc.CheckIn(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingJSON(b), "checked in", nil)
}

// Today GET /api/checkins/today
func (h *CheckInHandler) Today(c *gin.Context) {
	vs, err := h.Svc.TodayEligible(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(vs))
	for _, v := range vs {
		out = append(out, validationJSON(v))
	}
	response.Success(c, http.StatusOK, out, "today's bookings", map[string]any{"count": len(out)})
}

// History GET /api/checkins/history?limit=20
func (h *CheckInHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	bs, err := h.Svc.History(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookingsJSON(bs), "check-in history", map[string]any{"count": len(bs)})
}

// Stats GET /api/checkins/stats
func (h *CheckInHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, "check-in stats", nil)
}
