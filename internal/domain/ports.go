package domain

import "context"

type BookingRepository interface {
	// Eligibility reads
	FindEnrollmentByUser(ctx context.Context, userID int64) (Enrollment, error)
	FindTicketByEnrollment(ctx context.Context, enrollmentID int64) (Ticket, error)

	// Booking reads
	FindBookingByUser(ctx context.Context, userID int64) (BookingView, error)
	FindBookingByID(ctx context.Context, id int64) (Booking, error)
	ListRooms(ctx context.Context, hotelID int64) ([]RoomOccupancy, error)

	// Write paths. Both run the capacity check and the write atomically and
	// return ErrInvalidRoom, ErrRoomNotFound or ErrRoomFull when the target room
	// cannot take the booking.
	CreateBooking(ctx context.Context, userID, roomID int64) (Booking, error)
	MoveBooking(ctx context.Context, bookingID, roomID int64) (Booking, error)
}

type SessionRepository interface {
	FindSessionByToken(ctx context.Context, token string) (Session, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	// Incr atomically bumps the integer at key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}
