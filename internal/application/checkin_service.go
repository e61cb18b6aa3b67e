package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/domain/entity"
	repo "github.com/apexfit/booking-api/internal/domain/repository"
)

const defaultHistoryLimit = 20

// CheckInService guards the check-in window and records attendance.
type CheckInService struct {
	Bookings repo.BookingRepository
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewCheckInService(b repo.BookingRepository, logger *logrus.Logger) *CheckInService {
	return &CheckInService{Bookings: b, Logger: logger, Now: time.Now}
}

// Validate evaluates check-in eligibility without mutating anything.
func (s *CheckInService) Validate(ctx context.Context, bookingID, userID string) (entity.CheckInValidation, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return entity.CheckInValidation{}, err
	}
	if b.UserID != userID {
		return entity.CheckInValidation{}, entity.ErrForbidden
	}
	return b.ValidateCheckInAt(s.Now()), nil
}

// CheckIn validates the window and then stamps the booking. The repository
// re-checks checked_in_at inside its transaction, so a concurrent double
// check-in still only lands once.
func (s *CheckInService) CheckIn(ctx context.Context, bookingID, userID string) (*entity.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, entity.ErrForbidden
	}
	v := b.ValidateCheckInAt(s.Now())
	if !v.CanCheckIn {
		return nil, v.Err
	}

	checked, err := s.Bookings.CheckIn(ctx, bookingID, s.Now())
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    userID,
	}).Info("checked in")
	return checked, nil
}

// TodayEligible lists the user's confirmed bookings starting today, with the
// current window verdict attached to each.
func (s *CheckInService) TodayEligible(ctx context.Context, userID string) ([]entity.CheckInValidation, error) {
	now := s.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, err := s.Bookings.ListConfirmedBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CheckInValidation, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.ValidateCheckInAt(now))
	}
	return out, nil
}

// History returns the user's completed bookings, most recent first.
func (s *CheckInService) History(ctx context.Context, userID string, limit int) ([]*entity.Booking, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.Bookings.ListCompletedByUser(ctx, userID, limit)
}

type CheckInStats struct {
	Total     int `json:"total"`
	ThisMonth int `json:"this_month"`
	ThisWeek  int `json:"this_week"`
}

// Stats aggregates completed check-ins. Weeks start on Sunday.
func (s *CheckInService) Stats(ctx context.Context, userID string) (CheckInStats, error) {
	now := s.Now()

	total, err := s.Bookings.CountCompleted(ctx, userID)
	if err != nil {
		return CheckInStats{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	month, err := s.Bookings.CountCompletedSince(ctx, userID, monthStart)
	if err != nil {
		return CheckInStats{}, err
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := dayStart.AddDate(0, 0, -int(now.Weekday()))
	week, err := s.Bookings.CountCompletedSince(ctx, userID, weekStart)
	if err != nil {
		return CheckInStats{}, err
	}

	return CheckInStats{Total: total, ThisMonth: month, ThisWeek: week}, nil
}
