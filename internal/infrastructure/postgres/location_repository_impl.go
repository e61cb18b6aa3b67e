package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/internal/domain/repository"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

func (r *LocationRepository) List(ctx context.Context) ([]*entity.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, address, sauna_capacity, created_at, updated_at
		FROM locations ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		l := &entity.Location{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.SaunaCapacity, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l := &entity.Location{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, address, sauna_capacity, created_at, updated_at
		FROM locations WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Address, &l.SaunaCapacity, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrLocationNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

var _ repository.LocationRepository = (*LocationRepository)(nil)
