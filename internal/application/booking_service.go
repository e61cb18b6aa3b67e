package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/domain/entity"
	repo "github.com/apexfit/booking-api/internal/domain/repository"
	"github.com/apexfit/booking-api/pkg/mailer"
	"github.com/apexfit/booking-api/pkg/mailer/templates"
)

// Precondition failures raised before the booking transaction is opened.
var (
	ErrClassIDRequired  = errors.New("classId is required for class bookings")
	ErrInvalidTimeRange = errors.New("endTime must be after startTime")
	ErrStartTimeInPast  = errors.New("startTime must be in the future")
)

// EmailPublisher enqueues outbound email jobs.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// BookingService is the booking ledger: it owns creation and cancellation of
// bookings and, through the repository transaction, the class seat counter.
type BookingService struct {
	Bookings  repo.BookingRepository
	Classes   repo.ClassRepository
	Locations repo.LocationRepository
	Users     repo.UserRepository
	Redis     *redis.Client
	Logger    *logrus.Logger
	Pub       EmailPublisher
	Now       func() time.Time
}

func NewBookingService(b repo.BookingRepository, c repo.ClassRepository, l repo.LocationRepository, u repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, pub EmailPublisher) *BookingService {
	return &BookingService{
		Bookings:  b,
		Classes:   c,
		Locations: l,
		Users:     u,
		Redis:     rdb,
		Logger:    logger,
		Pub:       pub,
		Now:       time.Now,
	}
}

type CreateBookingInput struct {
	UserID     string
	Type       entity.BookingType
	ClassID    string
	LocationID string
	StartTime  time.Time
	EndTime    time.Time
}

// CreateBooking validates preconditions outside the transaction, then runs
// the capacity check, counter increment and booking insert atomically.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, error) {
	if in.Type == entity.BookingTypeClass && in.ClassID == "" {
		return nil, ErrClassIDRequired
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrInvalidTimeRange
	}
	if !in.StartTime.After(s.Now()) {
		return nil, ErrStartTimeInPast
	}

	b := &entity.Booking{
		UserID:     in.UserID,
		Type:       in.Type,
		ClassID:    in.ClassID,
		LocationID: in.LocationID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.invalidateClassCache(ctx)
	s.enqueueConfirmationEmail(ctx, b)

	s.Logger.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"user_id":    b.UserID,
		"type":       b.Type,
		"class_id":   b.ClassID,
	}).Info("booking created")
	return b, nil
}

// CancelBooking marks the booking cancelled and releases its class seat.
// Only the booking owner may cancel.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string) (*entity.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, entity.ErrForbidden
	}

	cancelled, err := s.Bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidateClassCache(ctx)
	s.Logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("booking cancelled")
	return cancelled, nil
}

// GetBooking returns the booking if it belongs to userID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID string) (*entity.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, entity.ErrForbidden
	}
	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListUpcomingBookings(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return s.Bookings.ListUpcomingByUser(ctx, userID, s.Now())
}

// HasExistingBooking reports whether the user already holds a confirmed
// booking for the class. Advisory pre-check; not part of the transaction.
func (s *BookingService) HasExistingBooking(ctx context.Context, userID, classID string) (bool, error) {
	return s.Bookings.HasConfirmedClassBooking(ctx, userID, classID)
}

type ClassAvailability struct {
	Available      bool `json:"available"`
	AvailableSlots int  `json:"available_slots"`
}

func (s *BookingService) CheckClassAvailability(ctx context.Context, classID string) (ClassAvailability, error) {
	c, err := s.Classes.GetByID(ctx, classID)
	if err != nil {
		return ClassAvailability{}, err
	}
	slots := c.AvailableSlots()
	return ClassAvailability{Available: slots > 0, AvailableSlots: slots}, nil
}

func (s *BookingService) invalidateClassCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, cacheKeyUpcomingClasses, cacheKeyAllClasses).Err(); err != nil {
		s.Logger.WithError(err).Warn("class cache invalidation failed")
	}
}

func (s *BookingService) enqueueConfirmationEmail(ctx context.Context, b *entity.Booking) {
	if s.Pub == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, b.UserID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", b.UserID).Warn("confirmation email skipped")
		return
	}
	data := map[string]any{
		"Name":        u.DisplayName,
		"BookingType": string(b.Type),
		"StartTime":   b.StartTime.Format("Mon, 02 Jan 2006 15:04"),
	}
	if b.ClassID != "" {
		if c, cErr := s.Classes.GetByID(ctx, b.ClassID); cErr == nil {
			data["ClassName"] = c.Name
		}
	}
	if loc, lErr := s.Locations.GetByID(ctx, b.LocationID); lErr == nil {
		data["LocationName"] = loc.Name
	}
	job := mailer.EmailJob{To: u.Email, Template: templates.BookingConfirmed, Data: data}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("booking_id", b.ID).Warn("failed to enqueue confirmation email")
	}
}
