package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInWindow(t *testing.T) {
	start := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start}

	open, close := b.CheckInWindow()
	assert.Equal(t, start.Add(-30*time.Minute), open)
	assert.Equal(t, start.Add(15*time.Minute), close)
}

func TestValidateCheckInAt(t *testing.T) {
	start := time.Date(2026, time.March, 2, 18, 0, 0, 0, time.UTC)
	checkedIn := start.Add(-5 * time.Minute)

	tests := []struct {
		name     string
		booking  Booking
		now      time.Time
		wantOK   bool
		wantErr  error
		wantMins int
	}{
		{
			name:    "at window open",
			booking: Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:     start.Add(-30 * time.Minute),
			wantOK:  true,
		},
		{
			name:    "at class start",
			booking: Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:     start,
			wantOK:  true,
		},
		{
			name:    "at window close",
			booking: Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:     start.Add(15 * time.Minute),
			wantOK:  true,
		},
		{
			name:     "one second before open",
			booking:  Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:      start.Add(-30*time.Minute - time.Second),
			wantErr:  ErrCheckInNotOpen,
			wantMins: 1,
		},
		{
			name:     "an hour early",
			booking:  Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:      start.Add(-time.Hour),
			wantErr:  ErrCheckInNotOpen,
			wantMins: 30,
		},
		{
			name:    "one second after close",
			booking: Booking{StartTime: start, Status: BookingStatusConfirmed},
			now:     start.Add(15*time.Minute + time.Second),
			wantErr: ErrCheckInClosed,
		},
		{
			name:    "already checked in",
			booking: Booking{StartTime: start, Status: BookingStatusCompleted, CheckedInAt: &checkedIn},
			now:     start,
			wantErr: ErrAlreadyCheckedIn,
		},
		{
			name:    "cancelled booking",
			booking: Booking{StartTime: start, Status: BookingStatusCancelled},
			now:     start,
			wantErr: ErrAlreadyCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.booking.ValidateCheckInAt(tt.now)
			assert.Equal(t, tt.wantOK, v.CanCheckIn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, v.Err, tt.wantErr)
				assert.NotEmpty(t, v.Reason)
			}
			if tt.wantMins > 0 {
				assert.Equal(t, tt.wantMins, v.MinutesUntilOpen)
			}
			require.NotNil(t, v.Booking)
		})
	}
}

func TestClassAvailableSlots(t *testing.T) {
	c := &Class{Capacity: 20, BookedCount: 17}
	assert.Equal(t, 3, c.AvailableSlots())
	assert.False(t, c.Full())

	c.BookedCount = 20
	assert.Equal(t, 0, c.AvailableSlots())
	assert.True(t, c.Full())
}
