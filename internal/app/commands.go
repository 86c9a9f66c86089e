package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

type BookingService struct {
	repo  domain.BookingRepository
	elig  *Eligibility
	cache domain.Cache
}

func NewBookingService(r domain.BookingRepository, e *Eligibility, cache domain.Cache) *BookingService {
	return &BookingService{repo: r, elig: e, cache: cache}
}

// CreateBooking books roomID for userID. The user must be eligible and must
// not already hold a booking; the room check and insert are atomic in storage.
func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID int64) (domain.Booking, error) {
	if _, err := s.elig.Check(ctx, userID); err != nil {
		return domain.Booking{}, err
	}

	existing, err := s.repo.FindBookingByUser(ctx, userID)
	switch {
	case err == nil:
		log.Debug().Int64("user_id", userID).Int64("booking_id", existing.ID).Msg("booking already exists")
		return domain.Booking{}, domain.ErrBookingExists
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Booking{}, err
	}

	if roomID <= 0 {
		return domain.Booking{}, domain.ErrInvalidRoom
	}

	b, err := s.repo.CreateBooking(ctx, userID, roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	s.invalidate(ctx, userID)
	log.Info().Int64("user_id", userID).Int64("room_id", roomID).Int64("booking_id", b.ID).Msg("booking created")
	return b, nil
}

// UpdateBooking moves bookingID to roomID on behalf of userID.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID, roomID, userID int64) (domain.Booking, error) {
	b, err := s.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, err
	}
	if b.UserID != userID {
		log.Debug().Int64("user_id", userID).Int64("booking_id", bookingID).Msg("booking owned by another user")
		return domain.Booking{}, domain.ErrNotOwner
	}

	if _, err := s.elig.Check(ctx, b.UserID); err != nil {
		return domain.Booking{}, err
	}

	if roomID <= 0 {
		return domain.Booking{}, domain.ErrInvalidRoom
	}
	if roomID == b.RoomID {
		return b, nil
	}

	moved, err := s.repo.MoveBooking(ctx, bookingID, roomID)
	if err != nil {
		return domain.Booking{}, err
	}
	s.invalidate(ctx, userID)
	log.Info().Int64("user_id", userID).Int64("booking_id", bookingID).
		Int64("from_room", b.RoomID).Int64("to_room", roomID).Msg("booking moved")
	return moved, nil
}

// invalidate bumps the user's booking version, then drops the view cached
// under the previous one.
func (s *BookingService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	ver, err := s.cache.Incr(ctx, bookingVersionKey(userID))
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("booking cache invalidation failed")
		return
	}
	if err := s.cache.Del(ctx, bookingKey(userID, ver-1)); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("booking cache eviction failed")
	}
}
