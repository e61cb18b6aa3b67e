package entity

import "errors"

// Domain error taxonomy. Repositories and services return these sentinels;
// handlers map them to HTTP statuses with errors.Is.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrClassNotFound    = errors.New("class not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrLocationNotFound = errors.New("location not found")

	ErrCapacityExceeded = errors.New("class is full")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrAlreadyCheckedIn = errors.New("booking already checked in")
	ErrForbidden        = errors.New("booking belongs to another user")

	ErrCheckInNotOpen = errors.New("check-in window not open yet")
	ErrCheckInClosed  = errors.New("check-in window has closed")

	ErrTransactionConflict = errors.New("booking conflict, please retry")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)
