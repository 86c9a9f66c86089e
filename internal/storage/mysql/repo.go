package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
)

// MySQL error 1062: duplicate entry for a unique key.
const errDupEntry = 1062

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

func (r *Repo) FindEnrollmentByUser(ctx context.Context, userID int64) (domain.Enrollment, error) {
	var e domain.Enrollment
	err := r.db.QueryRowContext(ctx, findEnrollmentByUserSQL, userID).Scan(
		&e.ID, &e.UserID, &e.Name, &e.CPF, &e.Phone, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Enrollment{}, domain.ErrNoEnrollment
		}
		return domain.Enrollment{}, fmt.Errorf("find enrollment: %w", err)
	}
	return e, nil
}

func (r *Repo) FindTicketByEnrollment(ctx context.Context, enrollmentID int64) (domain.Ticket, error) {
	var t domain.Ticket
	var status string
	err := r.db.QueryRowContext(ctx, findTicketByEnrollmentSQL, enrollmentID).Scan(
		&t.ID, &t.EnrollmentID, &status, &t.CreatedAt, &t.UpdatedAt,
		&t.Type.ID, &t.Type.Name, &t.Type.Price, &t.Type.IsRemote, &t.Type.IncludesHotel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Ticket{}, domain.ErrNoTicket
		}
		return domain.Ticket{}, fmt.Errorf("find ticket: %w", err)
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (r *Repo) FindBookingByUser(ctx context.Context, userID int64) (domain.BookingView, error) {
	var bv domain.BookingView
	err := r.db.QueryRowContext(ctx, findBookingByUserSQL, userID).Scan(
		&bv.ID,
		&bv.Room.ID, &bv.Room.Name, &bv.Room.Capacity, &bv.Room.HotelID,
		&bv.Room.CreatedAt, &bv.Room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BookingView{}, domain.ErrBookingNotFound
		}
		return domain.BookingView{}, fmt.Errorf("find booking by user: %w", err)
	}
	return bv, nil
}

func (r *Repo) FindBookingByID(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, findBookingByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, fmt.Errorf("find booking: %w", err)
	}
	return b, nil
}

func (r *Repo) ListRooms(ctx context.Context, hotelID int64) ([]domain.RoomOccupancy, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, hotelExistsSQL, hotelID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHotelNotFound
		}
		return nil, fmt.Errorf("find hotel: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listRoomsSQL, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	out := []domain.RoomOccupancy{}
	for rows.Next() {
		var ro domain.RoomOccupancy
		if err := rows.Scan(
			&ro.ID, &ro.Name, &ro.Capacity, &ro.HotelID, &ro.CreatedAt, &ro.UpdatedAt, &ro.BookedCount,
		); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, ro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

// CreateBooking locks the room, checks occupancy against capacity and inserts
// the booking in one transaction. A second booking for the same user trips the
// unique key on bookings.user_id and is reported as domain.ErrBookingExists.
func (r *Repo) CreateBooking(ctx context.Context, userID, roomID int64) (domain.Booking, error) {
	var id int64
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := reserveSeat(ctx, tx, roomID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, insertBookingSQL, userID, roomID)
		if err != nil {
			if isDuplicate(err) {
				return domain.ErrBookingExists
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return r.FindBookingByID(ctx, id)
}

// MoveBooking reassigns a booking to roomID under the same capacity rules as
// CreateBooking. The booking row is locked first so two moves of the same
// booking cannot interleave.
func (r *Repo) MoveBooking(ctx context.Context, bookingID, roomID int64) (domain.Booking, error) {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		b, err := scanBooking(tx.QueryRowContext(ctx, lockBookingSQL, bookingID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}
		if b.RoomID == roomID {
			return nil
		}
		if err := reserveSeat(ctx, tx, roomID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, moveBookingSQL, roomID, bookingID); err != nil {
			return fmt.Errorf("move booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return r.FindBookingByID(ctx, bookingID)
}

func (r *Repo) FindSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	var s domain.Session
	err := r.db.QueryRowContext(ctx, findSessionByTokenSQL, token).Scan(&s.ID, &s.UserID, &s.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}

// reserveSeat fails unless roomID names an existing room with a free place.
// It must run inside a transaction; the room row stays locked until commit.
func reserveSeat(ctx context.Context, tx *sql.Tx, roomID int64) error {
	if roomID <= 0 {
		return domain.ErrInvalidRoom
	}
	var capacity, booked int
	if err := tx.QueryRowContext(ctx, lockRoomSQL, roomID).Scan(&capacity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRoomNotFound
		}
		return fmt.Errorf("lock room: %w", err)
	}
	if err := tx.QueryRowContext(ctx, countRoomBookingsSQL, roomID).Scan(&booked); err != nil {
		return fmt.Errorf("count bookings: %w", err)
	}
	if booked >= capacity {
		return domain.ErrRoomFull
	}
	return nil
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}

func scanBooking(row *sql.Row) (domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == errDupEntry
}
