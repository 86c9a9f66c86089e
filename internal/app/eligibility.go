package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

// Eligibility decides whether a user may hold a hotel booking.
type Eligibility struct {
	repo         domain.BookingRepository
	legacyRemote bool
}

func NewEligibility(r domain.BookingRepository, legacyRemote bool) *Eligibility {
	return &Eligibility{repo: r, legacyRemote: legacyRemote}
}

// Check walks enrollment -> ticket -> ticket type and stops at the first
// failing step. Every failure wraps domain.ErrNotFound.
func (e *Eligibility) Check(ctx context.Context, userID int64) (domain.Ticket, error) {
	enr, err := e.repo.FindEnrollmentByUser(ctx, userID)
	if err != nil {
		return domain.Ticket{}, notFoundAs(err, domain.ErrNoEnrollment)
	}

	t, err := e.repo.FindTicketByEnrollment(ctx, enr.ID)
	if err != nil {
		return domain.Ticket{}, notFoundAs(err, domain.ErrNoTicket)
	}

	if !t.GrantsHotel(e.legacyRemote) {
		log.Debug().
			Int64("user_id", userID).
			Int64("ticket_id", t.ID).
			Str("status", string(t.Status)).
			Bool("includes_hotel", t.Type.IncludesHotel).
			Bool("is_remote", t.Type.IsRemote).
			Msg("ticket not eligible for hotel")
		return domain.Ticket{}, domain.ErrTicketNotEligible
	}
	return t, nil
}

// notFoundAs replaces a generic not-found from storage with a specific one and
// leaves other errors untouched.
func notFoundAs(err, specific error) error {
	if errors.Is(err, specific) {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return specific
	}
	return fmt.Errorf("eligibility lookup: %w", err)
}
