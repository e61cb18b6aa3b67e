package router

import (
	"github.com/apexfit/booking-api/internal/application"
	"github.com/apexfit/booking-api/internal/container"
	pginfra "github.com/apexfit/booking-api/internal/infrastructure/postgres"
	handlers "github.com/apexfit/booking-api/internal/interface/http"
	"github.com/apexfit/booking-api/internal/router/modules"
)

// Services exposes the application services built during module wiring so
// startup code can reach them (e.g. for the search reindex sweep).
type Services struct {
	Users    *application.UserService
	Bookings *application.BookingService
	CheckIns *application.CheckInService
	Classes  *application.ClassService
}

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module with the registry.
func InitModules(r *Registry) *Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	classRepo := pginfra.NewClassRepository(pool)
	locationRepo := pginfra.NewLocationRepository(pool)
	bookingRepo := pginfra.NewBookingRepository(pool, logger)

	userSvc := application.NewUserService(
		userRepo,
		container.GetJWT(),
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRedis(),
		logger,
	)
	// keep the interface nil when no publisher was constructed
	var pub application.EmailPublisher
	if rp := container.GetRabbitPub(); rp != nil {
		pub = rp
	}
	bookingSvc := application.NewBookingService(
		bookingRepo, classRepo, locationRepo, userRepo,
		container.GetRedis(), logger, pub,
	)
	checkinSvc := application.NewCheckInService(bookingRepo, logger)
	classSvc := application.NewClassService(
		classRepo,
		container.GetRedis(),
		container.GetES(),
		cfg.ESClassesIndex,
		logger,
	)

	userHandler := handlers.NewUserHandler(userSvc, container.GetJWT(), logger, cfg.CookieDomain, cfg.CookieSecure)
	authHandler := handlers.NewAuthHandler(userRepo, container.GetRedis(), logger, cfg, container.GetRabbitPub())
	bookingHandler := handlers.NewBookingHandler(bookingSvc, logger)
	checkinHandler := handlers.NewCheckInHandler(checkinSvc, logger)
	classHandler := handlers.NewClassHandler(classSvc, bookingSvc, logger)
	locationHandler := handlers.NewLocationHandler(locationRepo, logger)

	r.Add(modules.NewUserModule(userHandler, container.GetJWT()))
	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewBookingModule(bookingHandler, checkinHandler, container.GetJWT()))
	r.Add(modules.NewCheckInModule(checkinHandler, container.GetJWT()))
	r.Add(modules.NewClassModule(classHandler))
	r.Add(modules.NewLocationModule(locationHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	return &Services{Users: userSvc, Bookings: bookingSvc, CheckIns: checkinSvc, Classes: classSvc}
}
