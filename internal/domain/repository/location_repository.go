package repository

import (
	"context"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

// LocationRepository exposes studio branch reference data.
type LocationRepository interface {
	List(ctx context.Context) ([]*entity.Location, error)
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
