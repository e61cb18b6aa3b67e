package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

// In-memory repositories mirroring the transactional semantics of the
// Postgres implementations: seat counters move only together with booking
// rows, under a single lock.

type fakeClassRepo struct {
	mu      sync.Mutex
	classes map[string]*entity.Class
}

func newFakeClassRepo(classes ...*entity.Class) *fakeClassRepo {
	m := make(map[string]*entity.Class, len(classes))
	for _, c := range classes {
		m[c.ID] = c
	}
	return &fakeClassRepo{classes: m}
}

func (r *fakeClassRepo) List(ctx context.Context) ([]*entity.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Class, 0, len(r.classes))
	for _, c := range r.classes {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeClassRepo) ListUpcoming(ctx context.Context, after time.Time) ([]*entity.Class, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, c := range all {
		if c.StartTime.After(after) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeClassRepo) GetByID(ctx context.Context, id string) (*entity.Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[id]
	if !ok {
		return nil, entity.ErrClassNotFound
	}
	cp := *c
	return &cp, nil
}

type fakeLocationRepo struct {
	locations map[string]*entity.Location
}

func newFakeLocationRepo(locations ...*entity.Location) *fakeLocationRepo {
	m := make(map[string]*entity.Location, len(locations))
	for _, l := range locations {
		m[l.ID] = l
	}
	return &fakeLocationRepo{locations: m}
}

func (r *fakeLocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	out := make([]*entity.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, entity.ErrLocationNotFound
	}
	return l, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	m := make(map[string]*entity.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return entity.ErrEmailTaken
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return entity.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.Password = hash
	return nil
}

func (r *fakeUserRepo) SetVerified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.IsVerified = true
	return nil
}

func (r *fakeUserRepo) IsVerified(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return false, entity.ErrUserNotFound
	}
	return u.IsVerified, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
	classes  *fakeClassRepo
	saunaCap map[string]int // locationID -> capacity
	seq      int
}

func newFakeBookingRepo(classes *fakeClassRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[string]*entity.Booking{},
		classes:  classes,
		saunaCap: map[string]int{},
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch b.Type {
	case entity.BookingTypeClass:
		r.classes.mu.Lock()
		c, ok := r.classes.classes[b.ClassID]
		if !ok {
			r.classes.mu.Unlock()
			return entity.ErrClassNotFound
		}
		if c.BookedCount >= c.Capacity {
			r.classes.mu.Unlock()
			return entity.ErrCapacityExceeded
		}
		c.BookedCount++
		r.classes.mu.Unlock()
	case entity.BookingTypeSauna:
		capacity, ok := r.saunaCap[b.LocationID]
		if !ok {
			return entity.ErrLocationNotFound
		}
		overlapping := 0
		for _, other := range r.bookings {
			if other.Type == entity.BookingTypeSauna &&
				other.LocationID == b.LocationID &&
				other.Status == entity.BookingStatusConfirmed &&
				other.StartTime.Before(b.EndTime) && b.StartTime.Before(other.EndTime) {
				overlapping++
			}
		}
		if overlapping >= capacity {
			return entity.ErrCapacityExceeded
		}
	}

	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.Status = entity.BookingStatusConfirmed
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	if b.Status == entity.BookingStatusCancelled {
		return nil, entity.ErrAlreadyCancelled
	}
	b.Status = entity.BookingStatusCancelled
	b.UpdatedAt = time.Now()
	if b.Type == entity.BookingTypeClass {
		r.classes.mu.Lock()
		if c, ok := r.classes.classes[b.ClassID]; ok && c.BookedCount > 0 {
			c.BookedCount--
		}
		r.classes.mu.Unlock()
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) CheckIn(ctx context.Context, id string, at time.Time) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	if b.CheckedInAt != nil {
		return nil, entity.ErrAlreadyCheckedIn
	}
	b.CheckedInAt = &at
	b.Status = entity.BookingStatusCompleted
	b.UpdatedAt = at
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) list(filter func(*entity.Booking) bool) []*entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if filter(b) {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (r *fakeBookingRepo) ListUpcomingByUser(ctx context.Context, userID string, after time.Time) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.Status == entity.BookingStatusConfirmed && b.StartTime.After(after)
	}), nil
}

func (r *fakeBookingRepo) ListConfirmedBetween(ctx context.Context, userID string, from, to time.Time) ([]*entity.Booking, error) {
	return r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.Status == entity.BookingStatusConfirmed &&
			!b.StartTime.Before(from) && b.StartTime.Before(to)
	}), nil
}

func (r *fakeBookingRepo) ListCompletedByUser(ctx context.Context, userID string, limit int) ([]*entity.Booking, error) {
	out := r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.Status == entity.BookingStatusCompleted
	})
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) HasConfirmedClassBooking(ctx context.Context, userID, classID string) (bool, error) {
	return len(r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.ClassID == classID && b.Status == entity.BookingStatusConfirmed
	})) > 0, nil
}

func (r *fakeBookingRepo) CountCompleted(ctx context.Context, userID string) (int, error) {
	return len(r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.Status == entity.BookingStatusCompleted
	})), nil
}

func (r *fakeBookingRepo) CountCompletedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return len(r.list(func(b *entity.Booking) bool {
		return b.UserID == userID && b.Status == entity.BookingStatusCompleted &&
			b.CheckedInAt != nil && !b.CheckedInAt.Before(since)
	})), nil
}
