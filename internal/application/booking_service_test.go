package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func newBookingFixture(t *testing.T, capacity int) (*BookingService, *fakeBookingRepo, *fakeClassRepo) {
	t.Helper()
	class := &entity.Class{
		ID:         "class-1",
		Name:       "Yoga Morning Flow",
		Instructor: "Natcha",
		LocationID: "loc-1",
		StartTime:  testNow.Add(24 * time.Hour),
		EndTime:    testNow.Add(25 * time.Hour),
		Capacity:   capacity,
	}
	classes := newFakeClassRepo(class)
	bookings := newFakeBookingRepo(classes)
	bookings.saunaCap["loc-1"] = 2
	locations := newFakeLocationRepo(&entity.Location{ID: "loc-1", Name: "Sukhumvit Studio", SaunaCapacity: 2})
	users := newFakeUserRepo(&entity.User{ID: "user-1", Email: "a@b.co", DisplayName: "A"})

	svc := NewBookingService(bookings, classes, locations, users, nil, testLogger(), nil)
	svc.Now = func() time.Time { return testNow }
	return svc, bookings, classes
}

func classInput(userID string) CreateBookingInput {
	return CreateBookingInput{
		UserID:     userID,
		Type:       entity.BookingTypeClass,
		ClassID:    "class-1",
		LocationID: "loc-1",
		StartTime:  testNow.Add(24 * time.Hour),
		EndTime:    testNow.Add(25 * time.Hour),
	}
}

func TestCreateBookingPreconditions(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 10)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateBookingInput)
		wantErr error
	}{
		{
			name:    "class booking without class id",
			mutate:  func(in *CreateBookingInput) { in.ClassID = "" },
			wantErr: ErrClassIDRequired,
		},
		{
			name:    "end before start",
			mutate:  func(in *CreateBookingInput) { in.EndTime = in.StartTime.Add(-time.Hour) },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "end equals start",
			mutate:  func(in *CreateBookingInput) { in.EndTime = in.StartTime },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name: "start in the past",
			mutate: func(in *CreateBookingInput) {
				in.StartTime = testNow.Add(-time.Hour)
				in.EndTime = testNow
			},
			wantErr: ErrStartTimeInPast,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := classInput("user-1")
			tt.mutate(&in)
			_, err := svc.CreateBooking(ctx, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBookingIncrementsSeatCounter(t *testing.T) {
	svc, _, classes := newBookingFixture(t, 2)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, b.Status)
	assert.NotEmpty(t, b.ID)

	c, err := classes.GetByID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.BookedCount)
}

func TestCreateBookingFullClass(t *testing.T) {
	svc, _, classes := newBookingFixture(t, 1)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, classInput("user-2"))
	assert.ErrorIs(t, err, entity.ErrCapacityExceeded)

	c, err := classes.GetByID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.BookedCount, "failed booking must not move the counter")
}

func TestCreateBookingUnknownClass(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 10)
	in := classInput("user-1")
	in.ClassID = "missing"
	_, err := svc.CreateBooking(context.Background(), in)
	assert.ErrorIs(t, err, entity.ErrClassNotFound)
}

func TestCreateBookingConcurrentNeverOverbooks(t *testing.T) {
	const capacity = 5
	const attempts = 40
	svc, _, classes := newBookingFixture(t, capacity)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(ctx, classInput("user-1"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, entity.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, capacity, succeeded)

	c, err := classes.GetByID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, capacity, c.BookedCount)
}

func TestCreateSaunaBookingOverlapCapacity(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 10)
	ctx := context.Background()

	saunaIn := func(start, end time.Duration) CreateBookingInput {
		return CreateBookingInput{
			UserID:     "user-1",
			Type:       entity.BookingTypeSauna,
			LocationID: "loc-1",
			StartTime:  testNow.Add(start),
			EndTime:    testNow.Add(end),
		}
	}

	// sauna capacity at loc-1 is 2
	_, err := svc.CreateBooking(ctx, saunaIn(time.Hour, 2*time.Hour))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, saunaIn(time.Hour, 2*time.Hour))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, saunaIn(90*time.Minute, 150*time.Minute))
	assert.ErrorIs(t, err, entity.ErrCapacityExceeded, "overlapping third slot must be rejected")

	_, err = svc.CreateBooking(ctx, saunaIn(2*time.Hour, 3*time.Hour))
	assert.NoError(t, err, "non-overlapping slot fits")
}

func TestCancelBookingReleasesSeat(t *testing.T) {
	svc, _, classes := newBookingFixture(t, 1)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)

	c, err := classes.GetByID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, 0, c.BookedCount)

	// freed seat is bookable again
	_, err = svc.CreateBooking(ctx, classInput("user-2"))
	assert.NoError(t, err)
}

func TestCancelBookingTwice(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, b.ID, "user-1")
	require.NoError(t, err)
	_, err = svc.CancelBooking(ctx, b.ID, "user-1")
	assert.ErrorIs(t, err, entity.ErrAlreadyCancelled)
}

func TestCancelBookingOwnership(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, b.ID, "someone-else")
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = svc.CancelBooking(ctx, "missing", "user-1")
	assert.ErrorIs(t, err, entity.ErrBookingNotFound)
}

func TestGetBookingOwnerScoped(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	got, err := svc.GetBooking(ctx, b.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBooking(ctx, b.ID, "user-2")
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestHasExistingBooking(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 5)
	ctx := context.Background()

	has, err := svc.HasExistingBooking(ctx, "user-1", "class-1")
	require.NoError(t, err)
	assert.False(t, has)

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	has, err = svc.HasExistingBooking(ctx, "user-1", "class-1")
	require.NoError(t, err)
	assert.True(t, has)

	_, err = svc.CancelBooking(ctx, b.ID, "user-1")
	require.NoError(t, err)

	has, err = svc.HasExistingBooking(ctx, "user-1", "class-1")
	require.NoError(t, err)
	assert.False(t, has, "cancelled booking no longer counts")
}

func TestCheckClassAvailability(t *testing.T) {
	svc, _, _ := newBookingFixture(t, 2)
	ctx := context.Background()

	avail, err := svc.CheckClassAvailability(ctx, "class-1")
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Equal(t, 2, avail.AvailableSlots)

	_, err = svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, classInput("user-2"))
	require.NoError(t, err)

	avail, err = svc.CheckClassAvailability(ctx, "class-1")
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 0, avail.AvailableSlots)

	_, err = svc.CheckClassAvailability(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrClassNotFound)
}

func TestListUpcomingBookings(t *testing.T) {
	svc, repo, _ := newBookingFixture(t, 5)
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, classInput("user-1"))
	require.NoError(t, err)

	// a past booking never shows up as upcoming
	repo.mu.Lock()
	repo.bookings["past"] = &entity.Booking{
		ID: "past", UserID: "user-1", Type: entity.BookingTypeSauna,
		LocationID: "loc-1", Status: entity.BookingStatusConfirmed,
		StartTime: testNow.Add(-2 * time.Hour), EndTime: testNow.Add(-time.Hour),
	}
	repo.mu.Unlock()

	upcoming, err := svc.ListUpcomingBookings(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, b.ID, upcoming[0].ID)

	all, err := svc.ListBookings(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
