package entity

import "time"

// Class is a scheduled studio class. BookedCount may only be mutated by the
// booking ledger transactions; 0 <= BookedCount <= Capacity holds at all times.
type Class struct {
	ID          string
	Name        string
	Description string
	Instructor  string
	LocationID  string
	StartTime   time.Time
	EndTime     time.Time
	Capacity    int
	BookedCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AvailableSlots returns the number of seats still open.
func (c *Class) AvailableSlots() int {
	n := c.Capacity - c.BookedCount
	if n < 0 {
		return 0
	}
	return n
}

// Full reports whether the class has no seats left.
func (c *Class) Full() bool {
	return c.BookedCount >= c.Capacity
}
