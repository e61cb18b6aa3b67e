package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apexfit/booking-api/internal/container"
	handlers "github.com/apexfit/booking-api/internal/interface/http"
	"github.com/apexfit/booking-api/internal/interface/middleware"
	"github.com/apexfit/booking-api/pkg/helpers"
)

// CheckInModule exposes the attendance views (today's eligible bookings,
// history, stats). The check-in actions themselves live under /bookings.

type CheckInModule struct {
	Handler *handlers.CheckInHandler
	JWT     *helpers.JWTManager
}

func NewCheckInModule(h *handlers.CheckInHandler, jwt *helpers.JWTManager) *CheckInModule {
	return &CheckInModule{Handler: h, JWT: jwt}
}

func (m *CheckInModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/checkins/today", m.Handler.Today)
		auth.GET("/checkins/history", m.Handler.History)
		auth.GET("/checkins/stats", m.Handler.Stats)
	}
}
