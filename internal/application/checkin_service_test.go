package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexfit/booking-api/internal/domain/entity"
)

func newCheckInFixture(t *testing.T) (*CheckInService, *fakeBookingRepo) {
	t.Helper()
	classes := newFakeClassRepo(&entity.Class{
		ID: "class-1", LocationID: "loc-1", Capacity: 10,
		StartTime: testNow.Add(time.Hour), EndTime: testNow.Add(2 * time.Hour),
	})
	repo := newFakeBookingRepo(classes)
	svc := NewCheckInService(repo, testLogger())
	svc.Now = func() time.Time { return testNow }
	return svc, repo
}

func seedBooking(repo *fakeBookingRepo, id, userID string, start time.Time, status entity.BookingStatus) *entity.Booking {
	b := &entity.Booking{
		ID: id, UserID: userID, Type: entity.BookingTypeClass, ClassID: "class-1",
		LocationID: "loc-1", StartTime: start, EndTime: start.Add(time.Hour), Status: status,
	}
	repo.mu.Lock()
	repo.bookings[id] = b
	repo.mu.Unlock()
	return b
}

func TestValidateCheckInWindow(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		start      time.Time
		wantOK     bool
		wantErr    error
		wantMinute int
	}{
		{name: "window opens exactly 30 minutes before", start: testNow.Add(30 * time.Minute), wantOK: true},
		{name: "mid window", start: testNow.Add(10 * time.Minute), wantOK: true},
		{name: "window closes 15 minutes after start", start: testNow.Add(-15 * time.Minute), wantOK: true},
		{name: "too early", start: testNow.Add(45 * time.Minute), wantErr: entity.ErrCheckInNotOpen, wantMinute: 15},
		{name: "too early rounds up", start: testNow.Add(45*time.Minute + 30*time.Second), wantErr: entity.ErrCheckInNotOpen, wantMinute: 16},
		{name: "too late", start: testNow.Add(-16 * time.Minute), wantErr: entity.ErrCheckInClosed},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := "b-" + tt.name
			seedBooking(repo, id, "user-1", tt.start, entity.BookingStatusConfirmed)
			v, err := svc.Validate(ctx, id, "user-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, v.CanCheckIn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, v.Err, tt.wantErr)
			}
			if tt.wantMinute > 0 {
				assert.Equal(t, tt.wantMinute, v.MinutesUntilOpen)
			}
			_ = i
		})
	}
}

func TestValidateCheckInOwnershipAndMissing(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()
	seedBooking(repo, "b-1", "user-1", testNow.Add(10*time.Minute), entity.BookingStatusConfirmed)

	_, err := svc.Validate(ctx, "b-1", "user-2")
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = svc.Validate(ctx, "missing", "user-1")
	assert.ErrorIs(t, err, entity.ErrBookingNotFound)
}

func TestValidateCancelledBooking(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	seedBooking(repo, "b-1", "user-1", testNow.Add(10*time.Minute), entity.BookingStatusCancelled)

	v, err := svc.Validate(context.Background(), "b-1", "user-1")
	require.NoError(t, err)
	assert.False(t, v.CanCheckIn)
	assert.ErrorIs(t, v.Err, entity.ErrAlreadyCancelled)
}

func TestCheckInCompletesBooking(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()
	seedBooking(repo, "b-1", "user-1", testNow.Add(10*time.Minute), entity.BookingStatusConfirmed)

	b, err := svc.CheckIn(ctx, "b-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, b.Status)
	require.NotNil(t, b.CheckedInAt)
	assert.Equal(t, testNow, *b.CheckedInAt)

	_, err = svc.CheckIn(ctx, "b-1", "user-1")
	assert.ErrorIs(t, err, entity.ErrAlreadyCheckedIn)
}

func TestCheckInOutsideWindow(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()

	seedBooking(repo, "early", "user-1", testNow.Add(2*time.Hour), entity.BookingStatusConfirmed)
	_, err := svc.CheckIn(ctx, "early", "user-1")
	assert.ErrorIs(t, err, entity.ErrCheckInNotOpen)

	seedBooking(repo, "late", "user-1", testNow.Add(-time.Hour), entity.BookingStatusConfirmed)
	_, err = svc.CheckIn(ctx, "late", "user-1")
	assert.ErrorIs(t, err, entity.ErrCheckInClosed)

	b, _ := repo.GetByID(ctx, "early")
	assert.Equal(t, entity.BookingStatusConfirmed, b.Status, "rejected check-in leaves booking untouched")
}

func TestTodayEligibleBounds(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()

	// testNow is 12:00 UTC; same-day bookings at 00:30 and 23:00 qualify
	seedBooking(repo, "early-today", "user-1", testNow.Add(-11*time.Hour-30*time.Minute), entity.BookingStatusConfirmed)
	seedBooking(repo, "late-today", "user-1", testNow.Add(11*time.Hour), entity.BookingStatusConfirmed)
	seedBooking(repo, "tomorrow", "user-1", testNow.Add(24*time.Hour), entity.BookingStatusConfirmed)
	seedBooking(repo, "yesterday", "user-1", testNow.Add(-24*time.Hour), entity.BookingStatusConfirmed)
	seedBooking(repo, "cancelled", "user-1", testNow.Add(2*time.Hour), entity.BookingStatusCancelled)

	vs, err := svc.TodayEligible(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, vs, 2)
	ids := []string{vs[0].Booking.ID, vs[1].Booking.ID}
	assert.ElementsMatch(t, []string{"early-today", "late-today"}, ids)
}

func TestHistoryLimit(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		start := testNow.Add(-time.Duration(i+1) * 24 * time.Hour)
		b := seedBooking(repo, "done-"+string(rune('a'+i)), "user-1", start, entity.BookingStatusCompleted)
		at := start
		b.CheckedInAt = &at
	}

	got, err := svc.History(ctx, "user-1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 20, "default limit is 20")

	got, err = svc.History(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	// most recent first
	assert.True(t, got[0].StartTime.After(got[4].StartTime))
}

func TestStatsWeekStartsSunday(t *testing.T) {
	svc, repo := newCheckInFixture(t)
	ctx := context.Background()

	// testNow is Monday 2026-03-02; the week began Sunday 2026-03-01 00:00
	completedAt := func(id string, at time.Time) {
		b := seedBooking(repo, id, "user-1", at, entity.BookingStatusCompleted)
		b.CheckedInAt = &at
	}

	completedAt("this-week", time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	completedAt("this-month-last-week", time.Date(2026, time.February, 28, 9, 0, 0, 0, time.UTC)) // prior week and month
	completedAt("earlier", time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.ThisMonth)
	assert.Equal(t, 1, stats.ThisWeek)
}
