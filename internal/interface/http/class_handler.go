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

type ClassHandler struct {
	Svc      *application.ClassService
	Bookings *application.BookingService
	Logger   *logrus.Logger
}

func NewClassHandler(svc *application.ClassService, bookings *application.BookingService, logger *logrus.Logger) *ClassHandler {
	return &ClassHandler{Svc: svc, Bookings: bookings, Logger: logger}
}

func classJSON(cl *entity.Class) gin.H {
	return gin.H{
		"id":              cl.ID,
		"name":            cl.Name,
		"description":     cl.Description,
		"instructor":      cl.Instructor,
		"location_id":     cl.LocationID,
		"start_time":      cl.StartTime,
		"end_time":        cl.EndTime,
		"capacity":        cl.Capacity,
		"booked_count":    cl.BookedCount,
		"available_slots": cl.AvailableSlots(),
	}
}

func classesJSON(cs []*entity.Class) []gin.H {
	out := make([]gin.H, 0, len(cs))
	for _, cl := range cs {
		out = append(out, classJSON(cl))
	}
	return out
}

// List GET /api/classes?upcoming=true
func (h *ClassHandler) List(c *gin.Context) {
	var (
		classes []*entity.Class
		err     error
	)
	if c.Query("upcoming") == "true" {
		classes, err = h.Svc.ListUpcoming(c.Request.Context())
	} else {
		classes, err = h.Svc.List(c.Request.Context())
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, classesJSON(classes), "classes", map[string]any{"count": len(classes)})
}

// Upcoming GET /api/classes/upcoming
func (h *ClassHandler) Upcoming(c *gin.Context) {
	classes, err := h.Svc.ListUpcoming(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, classesJSON(classes), "upcoming classes", map[string]any{"count": len(classes)})
}

// Get GET /api/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	cl, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, classJSON(cl), "class", nil)
}

// Availability GET /api/classes/:id/availability
func (h *ClassHandler) Availability(c *gin.Context) {
	avail, err := h.Bookings.CheckClassAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, avail, "class availability", nil)
}

// Search GET /api/classes/search?q=yoga&size=20
func (h *ClassHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	classes, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("class search failed")
		response.Error[any](c, http.StatusServiceUnavailable, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, classesJSON(classes), "search results", map[string]any{"count": len(classes)})
}
