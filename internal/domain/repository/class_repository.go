package repository

import (
	"context"
	"time"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

// ClassRepository is the read-only catalog of scheduled classes. The
// booked_count column is written exclusively by BookingRepository transactions.
type ClassRepository interface {
	List(ctx context.Context) ([]*entity.Class, error)
	ListUpcoming(ctx context.Context, after time.Time) ([]*entity.Class, error)
	GetByID(ctx context.Context, id string) (*entity.Class, error)
}
