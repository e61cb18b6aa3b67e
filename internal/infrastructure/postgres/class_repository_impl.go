package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/internal/domain/repository"
)

const classColumns = `id, name, description, instructor, location_id, start_time, end_time, capacity, booked_count, created_at, updated_at`

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) List(ctx context.Context) ([]*entity.Class, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+classColumns+` FROM classes ORDER BY start_time ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

func (r *ClassRepository) ListUpcoming(ctx context.Context, after time.Time) ([]*entity.Class, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+classColumns+` FROM classes WHERE start_time > $1 ORDER BY start_time ASC
	`, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClasses(rows)
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+classColumns+` FROM classes WHERE id = $1
	`, id)
	c, err := scanClass(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrClassNotFound
	}
	return c, err
}

func scanClass(row pgx.Row) (*entity.Class, error) {
	c := &entity.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Instructor, &c.LocationID,
		&c.StartTime, &c.EndTime, &c.Capacity, &c.BookedCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanClasses(rows pgx.Rows) ([]*entity.Class, error) {
	var out []*entity.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.ClassRepository = (*ClassRepository)(nil)
