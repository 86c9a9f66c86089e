package domain

import "time"

type Hotel struct {
	ID        int64
	Name      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	HotelID   int64     `json:"hotelId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoomOccupancy is a room together with the number of bookings currently assigned to it.
type RoomOccupancy struct {
	Room
	BookedCount int `json:"bookedCount"`
}

func (r RoomOccupancy) Full() bool { return r.BookedCount >= r.Capacity }
