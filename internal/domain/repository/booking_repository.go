package repository

import (
	"context"
	"time"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

// BookingRepository owns the booking lifecycle. Create, Cancel and CheckIn
// each run as a single serializable transaction so that the capacity check and
// the counter mutation are atomic with respect to concurrent bookings on the
// same class.
type BookingRepository interface {
	// Create inserts a confirmed booking. For class bookings it verifies and
	// increments the class seat counter in the same transaction; for sauna
	// bookings it verifies the location's sauna capacity against confirmed
	// overlapping bookings. Returns entity.ErrClassNotFound,
	// entity.ErrCapacityExceeded or entity.ErrTransactionConflict.
	Create(ctx context.Context, b *entity.Booking) error

	// Cancel marks the booking cancelled and releases its class seat.
	// Returns entity.ErrBookingNotFound or entity.ErrAlreadyCancelled.
	Cancel(ctx context.Context, id string) (*entity.Booking, error)

	// CheckIn re-reads the booking, verifies it has not been checked in, and
	// marks it completed with the given check-in time. Returns
	// entity.ErrBookingNotFound or entity.ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, id string, at time.Time) (*entity.Booking, error)

	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error)
	ListUpcomingByUser(ctx context.Context, userID string, after time.Time) ([]*entity.Booking, error)
	ListConfirmedBetween(ctx context.Context, userID string, from, to time.Time) ([]*entity.Booking, error)
	ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*entity.Booking, error)
	HasConfirmedClassBooking(ctx context.Context, userID, classID string) (bool, error)
	CountCompleted(ctx context.Context, userID string) (int, error)
	CountCompletedSince(ctx context.Context, userID string, since time.Time) (int, error)
}
