package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

type QueryService struct {
	repo     domain.BookingRepository
	elig     *Eligibility
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.BookingRepository, e *Eligibility, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, elig: e, cache: c, cacheTTL: ttl}
}

// Cached booking views are keyed by a per-user version that every write
// bumps, so a read racing a write can only fill a key nobody reads again.
func bookingVersionKey(userID int64) string { return fmt.Sprintf("booking:ver:%d", userID) }

func bookingKey(userID, ver int64) string { return fmt.Sprintf("booking:user:%d:v%d", userID, ver) }

// GetBooking returns the caller's booking. Eligibility is checked on every
// call; only the booking lookup itself is served from cache.
func (s *QueryService) GetBooking(ctx context.Context, userID int64) (domain.BookingView, error) {
	if _, err := s.elig.Check(ctx, userID); err != nil {
		return domain.BookingView{}, err
	}
	ttl := int(s.cacheTTL.Seconds())
	if s.cache == nil || ttl <= 0 {
		return s.repo.FindBookingByUser(ctx, userID)
	}

	// the version must be read before the row
	var ver int64
	if _, err := s.cache.Get(ctx, bookingVersionKey(userID), &ver); err != nil {
		return s.repo.FindBookingByUser(ctx, userID)
	}
	key := bookingKey(userID, ver)

	var bv domain.BookingView
	if ok, _ := s.cache.Get(ctx, key, &bv); ok {
		return bv, nil
	}
	bv, err := s.repo.FindBookingByUser(ctx, userID)
	if err != nil {
		return domain.BookingView{}, err
	}
	_ = s.cache.Set(ctx, key, bv, ttl)
	return bv, nil
}

// ListRooms returns the rooms of a hotel with live occupancy; never cached.
func (s *QueryService) ListRooms(ctx context.Context, hotelID int64) ([]domain.RoomOccupancy, error) {
	if hotelID <= 0 {
		return nil, domain.ErrHotelNotFound
	}
	return s.repo.ListRooms(ctx, hotelID)
}
