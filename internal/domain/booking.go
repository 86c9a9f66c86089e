package domain

import "time"

type Booking struct {
	ID        int64
	UserID    int64
	RoomID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingView is the read model returned for a user's current booking.
type BookingView struct {
	ID   int64 `json:"id"`
	Room Room  `json:"Room"`
}
