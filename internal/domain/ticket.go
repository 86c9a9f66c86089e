package domain

import "time"

type TicketStatus string

const (
	TicketReserved TicketStatus = "RESERVED"
	TicketPaid     TicketStatus = "PAID"
)

type Enrollment struct {
	ID        int64
	UserID    int64
	Name      string
	CPF       string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TicketType struct {
	ID            int64
	Name          string
	Price         int
	IsRemote      bool
	IncludesHotel bool
}

type Ticket struct {
	ID           int64
	EnrollmentID int64
	Status       TicketStatus
	Type         TicketType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID     int64
	UserID int64
	Token  string
}

// GrantsHotel reports whether the ticket entitles its holder to a hotel room.
// With legacyRemote set the ticket type must be remote, matching the rule the
// first release of the bookings API shipped with.
func (t Ticket) GrantsHotel(legacyRemote bool) bool {
	if t.Status != TicketPaid || !t.Type.IncludesHotel {
		return false
	}
	if legacyRemote {
		return t.Type.IsRemote
	}
	return !t.Type.IsRemote
}
