package entity

import "time"

// Location is a studio branch. Static reference data seeded at install time;
// SaunaCapacity bounds concurrent confirmed sauna bookings per slot.
type Location struct {
	ID            string
	Name          string
	Address       string
	SaunaCapacity int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
