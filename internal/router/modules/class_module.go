package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apexfit/booking-api/internal/container"
	handlers "github.com/apexfit/booking-api/internal/interface/http"
	"github.com/apexfit/booking-api/internal/interface/middleware"
)

// ClassModule exposes the public class catalog. Browsing needs no session;
// members see live availability before logging in to book.

type ClassModule struct {
	Handler *handlers.ClassHandler
}

func NewClassModule(h *handlers.ClassHandler) *ClassModule {
	return &ClassModule{Handler: h}
}

func (m *ClassModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/classes", rl, m.Handler.List)
	rg.GET("/classes/upcoming", rl, m.Handler.Upcoming)
	rg.GET("/classes/search", rl, m.Handler.Search)
	rg.GET("/classes/:id", rl, m.Handler.Get)
	rg.GET("/classes/:id/availability", rl, m.Handler.Availability)
}
