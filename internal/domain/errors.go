package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP boundary maps these to status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
)

var (
	ErrNoEnrollment      = fmt.Errorf("enrollment %w", ErrNotFound)
	ErrNoTicket          = fmt.Errorf("ticket %w", ErrNotFound)
	ErrTicketNotEligible = fmt.Errorf("ticket does not grant a hotel booking: %w", ErrNotFound)
	ErrBookingNotFound   = fmt.Errorf("booking %w", ErrNotFound)
	ErrHotelNotFound     = fmt.Errorf("hotel %w", ErrNotFound)

	ErrBookingExists = fmt.Errorf("user already has a booking: %w", ErrConflict)

	ErrInvalidRoom  = fmt.Errorf("room id must be positive: %w", ErrForbidden)
	ErrRoomNotFound = fmt.Errorf("room does not exist: %w", ErrForbidden)
	ErrRoomFull     = fmt.Errorf("room is at capacity: %w", ErrForbidden)

	ErrNotOwner  = fmt.Errorf("booking belongs to another user: %w", ErrUnauthorized)
	ErrNoSession = fmt.Errorf("no session for token: %w", ErrUnauthorized)
)
