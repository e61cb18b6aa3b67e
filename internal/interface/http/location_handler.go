package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/domain/entity"
	repo "github.com/apexfit/booking-api/internal/domain/repository"
	"github.com/apexfit/booking-api/pkg/response"
)

type LocationHandler struct {
	Repo   repo.LocationRepository
	Logger *logrus.Logger
}

func NewLocationHandler(locations repo.LocationRepository, logger *logrus.Logger) *LocationHandler {
	return &LocationHandler{Repo: locations, Logger: logger}
}

func locationJSON(l *entity.Location) gin.H {
	return gin.H{
		"id":             l.ID,
		"name":           l.Name,
		"address":        l.Address,
		"sauna_capacity": l.SaunaCapacity,
	}
}

// List GET /api/locations
func (h *LocationHandler) List(c *gin.Context) {
	ls, err := h.Repo.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(ls))
	for _, l := range ls {
		out = append(out, locationJSON(l))
	}
	response.Success(c, http.StatusOK, out, "locations", map[string]any{"count": len(out)})
}

// Get GET /api/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	l, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	response.Success(c, http.StatusOK, locationJSON(l), "location", nil)
}
