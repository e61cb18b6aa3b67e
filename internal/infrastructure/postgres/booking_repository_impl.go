package postgres

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/apexfit/booking-api/internal/domain/entity"
	"github.com/apexfit/booking-api/internal/domain/repository"
)

const bookingColumns = `id, user_id, type, class_id, location_id, start_time, end_time, status, checked_in_at, created_at, updated_at`

// txAttempts bounds retries on serialization failures before the conflict is
// surfaced to the caller as entity.ErrTransactionConflict.
const txAttempts = 3

type BookingRepository struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewBookingRepository(pool *pgxpool.Pool, logger *logrus.Logger) *BookingRepository {
	return &BookingRepository{pool: pool, logger: logger}
}

// inSerializableTx runs fn inside a SERIALIZABLE transaction, retrying a
// bounded number of times when Postgres aborts it with a serialization
// failure or deadlock.
func (r *BookingRepository) inSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}
		if attempt >= txAttempts {
			return entity.ErrTransactionConflict
		}
		// jittered linear backoff before retrying the whole transaction
		delay := time.Duration(attempt)*10*time.Millisecond + time.Duration(rand.Intn(10))*time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (r *BookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	return r.inSerializableTx(ctx, func(tx pgx.Tx) error {
		switch b.Type {
		case entity.BookingTypeClass:
			if err := reserveClassSeat(ctx, tx, b.ClassID); err != nil {
				return err
			}
		case entity.BookingTypeSauna:
			if err := reserveSaunaSlot(ctx, tx, b.LocationID, b.StartTime, b.EndTime); err != nil {
				return err
			}
		}

		var classID any
		if b.ClassID != "" {
			classID = b.ClassID
		}
		b.Status = entity.BookingStatusConfirmed
		b.CheckedInAt = nil
		return tx.QueryRow(ctx, `
			INSERT INTO bookings (user_id, type, class_id, location_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`, b.UserID, b.Type, classID, b.LocationID, b.StartTime, b.EndTime, b.Status).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
}

// reserveClassSeat performs the capacity check and counter increment that
// keep 0 <= booked_count <= capacity under concurrent bookings.
func reserveClassSeat(ctx context.Context, tx pgx.Tx, classID string) error {
	var capacity, booked int
	err := tx.QueryRow(ctx, `
		SELECT capacity, booked_count FROM classes WHERE id = $1
	`, classID).Scan(&capacity, &booked)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrClassNotFound
	}
	if err != nil {
		return err
	}
	if booked >= capacity {
		return entity.ErrCapacityExceeded
	}
	_, err = tx.Exec(ctx, `
		UPDATE classes SET booked_count = booked_count + 1, updated_at = now() WHERE id = $1
	`, classID)
	return err
}

// reserveSaunaSlot checks confirmed overlapping sauna bookings at the
// location against its sauna capacity inside the same transaction.
func reserveSaunaSlot(ctx context.Context, tx pgx.Tx, locationID string, start, end time.Time) error {
	var capacity int
	err := tx.QueryRow(ctx, `
		SELECT sauna_capacity FROM locations WHERE id = $1
	`, locationID).Scan(&capacity)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.ErrLocationNotFound
	}
	if err != nil {
		return err
	}

	var occupied int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE type = 'sauna' AND location_id = $1 AND status = 'confirmed'
		  AND start_time < $3 AND end_time > $2
	`, locationID, start, end).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied >= capacity {
		return entity.ErrCapacityExceeded
	}
	return nil
}

func (r *BookingRepository) Cancel(ctx context.Context, id string) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.inSerializableTx(ctx, func(tx pgx.Tx) error {
		b, err := getBookingTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.Status == entity.BookingStatusCancelled {
			return entity.ErrAlreadyCancelled
		}

		err = tx.QueryRow(ctx, `
			UPDATE bookings SET status = 'cancelled', updated_at = now()
			WHERE id = $1
			RETURNING updated_at
		`, id).Scan(&b.UpdatedAt)
		if err != nil {
			return err
		}
		b.Status = entity.BookingStatusCancelled

		if b.Type == entity.BookingTypeClass && b.ClassID != "" {
			if err := releaseClassSeat(ctx, tx, b.ClassID, r.logger); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// releaseClassSeat decrements booked_count. A decrement that would go below
// zero means the counter and the booking records have diverged; it is logged
// as an invariant violation and the count is left at zero.
func releaseClassSeat(ctx context.Context, tx pgx.Tx, classID string, logger *logrus.Logger) error {
	var booked int
	err := tx.QueryRow(ctx, `
		SELECT booked_count FROM classes WHERE id = $1
	`, classID).Scan(&booked)
	if errors.Is(err, pgx.ErrNoRows) {
		// class deleted out from under a confirmed booking; nothing to release
		return nil
	}
	if err != nil {
		return err
	}
	if booked <= 0 {
		if logger != nil {
			logger.WithField("class_id", classID).
				Error("booked_count underflow on cancel, counter left at zero")
		}
		return nil
	}
	_, err = tx.Exec(ctx, `
		UPDATE classes SET booked_count = booked_count - 1, updated_at = now() WHERE id = $1
	`, classID)
	return err
}

func (r *BookingRepository) CheckIn(ctx context.Context, id string, at time.Time) (*entity.Booking, error) {
	var out *entity.Booking
	err := r.inSerializableTx(ctx, func(tx pgx.Tx) error {
		b, err := getBookingTx(ctx, tx, id)
		if err != nil {
			return err
		}
		// guards the read-check-act race between validation and commit
		if b.CheckedInAt != nil {
			return entity.ErrAlreadyCheckedIn
		}

		err = tx.QueryRow(ctx, `
			UPDATE bookings SET checked_in_at = $2, status = 'completed', updated_at = now()
			WHERE id = $1
			RETURNING updated_at
		`, id, at).Scan(&b.UpdatedAt)
		if err != nil {
			return err
		}
		b.CheckedInAt = &at
		b.Status = entity.BookingStatusCompleted
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getBookingTx(ctx context.Context, tx pgx.Tx, id string) (*entity.Booking, error) {
	b, err := scanBooking(tx.QueryRow(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+` FROM bookings WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrBookingNotFound
	}
	return b, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) ListUpcomingByUser(ctx context.Context, userID string, after time.Time) ([]*entity.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 AND status = 'confirmed' AND start_time > $2
		ORDER BY start_time ASC
	`, userID, after)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) ListConfirmedBetween(ctx context.Context, userID string, from, to time.Time) ([]*entity.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 AND status = 'confirmed' AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*entity.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY checked_in_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) HasConfirmedClassBooking(ctx context.Context, userID, classID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND class_id = $2 AND status = 'confirmed'
		)
	`, userID, classID).Scan(&exists)
	return exists, err
}

func (r *BookingRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND status = 'completed'
	`, userID).Scan(&n)
	return n, err
}

func (r *BookingRepository) CountCompletedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE user_id = $1 AND status = 'completed' AND checked_in_at >= $2
	`, userID, since).Scan(&n)
	return n, err
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	b := &entity.Booking{}
	var classID *string
	err := row.Scan(&b.ID, &b.UserID, &b.Type, &classID, &b.LocationID,
		&b.StartTime, &b.EndTime, &b.Status, &b.CheckedInAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if classID != nil {
		b.ClassID = *classID
	}
	return b, nil
}

func scanBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var out []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

var _ repository.BookingRepository = (*BookingRepository)(nil)
