package entity

import "time"

type BookingType string

const (
	BookingTypeClass BookingType = "class"
	BookingTypeSauna BookingType = "sauna"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Check-in window relative to the booking start time.
const (
	CheckInOpensBefore = 30 * time.Minute
	CheckInClosesAfter = 15 * time.Minute
)

// Booking is a member's reservation of a class seat or sauna slot.
// Lifecycle: confirmed -> cancelled (via cancellation) or
// confirmed -> completed (via check-in); both end states are terminal.
type Booking struct {
	ID          string
	UserID      string
	Type        BookingType
	ClassID     string // set iff Type == BookingTypeClass
	LocationID  string
	StartTime   time.Time
	EndTime     time.Time
	Status      BookingStatus
	CheckedInAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CheckInWindow returns the interval during which check-in is allowed.
func (b *Booking) CheckInWindow() (open, close time.Time) {
	return b.StartTime.Add(-CheckInOpensBefore), b.StartTime.Add(CheckInClosesAfter)
}

// CheckInValidation is the result of evaluating check-in eligibility.
type CheckInValidation struct {
	CanCheckIn       bool
	Reason           string
	Err              error
	MinutesUntilOpen int // set when the window has not opened yet
	Booking          *Booking
}

// ValidateCheckInAt evaluates whether the booking can be checked in at the
// given instant. It does not consider ownership; callers verify that.
func (b *Booking) ValidateCheckInAt(now time.Time) CheckInValidation {
	v := CheckInValidation{Booking: b}

	if b.CheckedInAt != nil {
		v.Reason = "already checked in"
		v.Err = ErrAlreadyCheckedIn
		return v
	}
	if b.Status == BookingStatusCancelled {
		v.Reason = "booking has been cancelled"
		v.Err = ErrAlreadyCancelled
		return v
	}

	open, close := b.CheckInWindow()
	if now.Before(open) {
		mins := int(open.Sub(now).Minutes())
		if open.Sub(now)%time.Minute != 0 {
			mins++ // round up, matches what members see on a countdown
		}
		v.MinutesUntilOpen = mins
		v.Reason = "check-in not open yet"
		v.Err = ErrCheckInNotOpen
		return v
	}
	if now.After(close) {
		v.Reason = "check-in window has closed"
		v.Err = ErrCheckInClosed
		return v
	}

	v.CanCheckIn = true
	return v
}
