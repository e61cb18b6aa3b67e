package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/apexfit/booking-api/internal/container"
	handlers "github.com/apexfit/booking-api/internal/interface/http"
	"github.com/apexfit/booking-api/internal/interface/middleware"
)

type LocationModule struct {
	Handler *handlers.LocationHandler
}

func NewLocationModule(h *handlers.LocationHandler) *LocationModule {
	return &LocationModule{Handler: h}
}

func (m *LocationModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/locations", rl, m.Handler.List)
	rg.GET("/locations/:id", rl, m.Handler.Get)
}
