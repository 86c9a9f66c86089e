package app_test

import (
	"context"
	"sync"

	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu          sync.Mutex
	enrollments map[int64]domain.Enrollment // by user
	tickets     map[int64]domain.Ticket     // by enrollment
	rooms       map[int64]domain.Room
	bookings    map[int64]domain.Booking
	nextID      int64

	findByUserCalls int
	afterFindByUser func() // runs once the row is read, outside the lock
	err             error  // returned by every call when set
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		enrollments: map[int64]domain.Enrollment{},
		tickets:     map[int64]domain.Ticket{},
		rooms:       map[int64]domain.Room{},
		bookings:    map[int64]domain.Booking{},
		nextID:      100,
	}
}

// eligible seeds an enrollment and a paid, in-person, hotel ticket for userID.
func (f *fakeRepo) eligible(userID int64) {
	f.enrollWithTicket(userID, domain.TicketPaid, domain.TicketType{ID: 1, IncludesHotel: true, IsRemote: false})
}

func (f *fakeRepo) enrollWithTicket(userID int64, st domain.TicketStatus, tt domain.TicketType) {
	enrID := userID * 10
	f.enrollments[userID] = domain.Enrollment{ID: enrID, UserID: userID}
	f.tickets[enrID] = domain.Ticket{ID: enrID + 1, EnrollmentID: enrID, Status: st, Type: tt}
}

func (f *fakeRepo) room(id int64, capacity int) {
	f.rooms[id] = domain.Room{ID: id, Name: "room", Capacity: capacity, HotelID: 1}
}

func (f *fakeRepo) occupancy(roomID int64) int {
	n := 0
	for _, b := range f.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n
}

func (f *fakeRepo) FindEnrollmentByUser(ctx context.Context, userID int64) (domain.Enrollment, error) {
	if f.err != nil {
		return domain.Enrollment{}, f.err
	}
	e, ok := f.enrollments[userID]
	if !ok {
		return domain.Enrollment{}, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) FindTicketByEnrollment(ctx context.Context, enrollmentID int64) (domain.Ticket, error) {
	t, ok := f.tickets[enrollmentID]
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) FindBookingByUser(ctx context.Context, userID int64) (domain.BookingView, error) {
	f.mu.Lock()
	f.findByUserCalls++
	bv, err := domain.BookingView{}, error(domain.ErrBookingNotFound)
	for _, b := range f.bookings {
		if b.UserID == userID {
			bv, err = domain.BookingView{ID: b.ID, Room: f.rooms[b.RoomID]}, nil
			break
		}
	}
	hook := f.afterFindByUser
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return bv, err
}

func (f *fakeRepo) FindBookingByID(ctx context.Context, id int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeRepo) ListRooms(ctx context.Context, hotelID int64) ([]domain.RoomOccupancy, error) {
	var out []domain.RoomOccupancy
	for _, r := range f.rooms {
		if r.HotelID == hotelID {
			out = append(out, domain.RoomOccupancy{Room: r, BookedCount: f.occupancy(r.ID)})
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrHotelNotFound
	}
	return out, nil
}

func (f *fakeRepo) checkRoom(roomID int64) error {
	r, ok := f.rooms[roomID]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if f.occupancy(roomID) >= r.Capacity {
		return domain.ErrRoomFull
	}
	return nil
}

func (f *fakeRepo) CreateBooking(ctx context.Context, userID, roomID int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkRoom(roomID); err != nil {
		return domain.Booking{}, err
	}
	for _, b := range f.bookings {
		if b.UserID == userID {
			return domain.Booking{}, domain.ErrBookingExists
		}
	}
	f.nextID++
	b := domain.Booking{ID: f.nextID, UserID: userID, RoomID: roomID}
	f.bookings[b.ID] = b
	return b, nil
}

func (f *fakeRepo) MoveBooking(ctx context.Context, bookingID, roomID int64) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	if err := f.checkRoom(roomID); err != nil {
		return domain.Booking{}, err
	}
	b.RoomID = roomID
	f.bookings[bookingID] = b
	return b, nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
	incrs []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.BookingView:
		*d = v.(domain.BookingView)
	case *int64:
		*d = v.(int64)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	if c.store == nil {
		c.store = map[string]any{}
	}
	n, _ := c.store[key].(int64)
	n++
	c.store[key] = n
	c.incrs = append(c.incrs, key)
	return n, nil
}
