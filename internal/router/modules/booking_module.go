package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apexfit/booking-api/internal/container"
	handlers "github.com/apexfit/booking-api/internal/interface/http"
	"github.com/apexfit/booking-api/internal/interface/middleware"
	"github.com/apexfit/booking-api/pkg/helpers"
)

// BookingModule wires the booking ledger routes. Everything here requires an
// authenticated session; booking creation gets its own tighter limiter so a
// misbehaving client cannot hammer the serializable transaction path.

type BookingModule struct {
	Bookings *handlers.BookingHandler
	CheckIns *handlers.CheckInHandler
	JWT      *helpers.JWTManager
}

func NewBookingModule(b *handlers.BookingHandler, ci *handlers.CheckInHandler, jwt *helpers.JWTManager) *BookingModule {
	return &BookingModule{Bookings: b, CheckIns: ci, JWT: jwt}
}

func (m *BookingModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	createLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)

	{
		auth.POST("/bookings", createLimiter, m.Bookings.Create)
		auth.GET("/bookings", m.Bookings.List)
		auth.GET("/bookings/upcoming", m.Bookings.ListUpcoming)
		auth.GET("/bookings/existing/:classId", m.Bookings.HasExisting)
		auth.GET("/bookings/:id", m.Bookings.Get)
		auth.POST("/bookings/:id/cancel", m.Bookings.Cancel)
		auth.GET("/bookings/:id/checkin", m.CheckIns.Validate)
		auth.POST("/bookings/:id/checkin", m.CheckIns.CheckIn)
	}
}
