package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// BookingRepository defines the persistence contract for bookings.
//
// The state listings order by start timestamp descending; now is sampled
// once by the caller so every predicate in one call sees the same instant.
type BookingRepository interface {
	// FindByID retrieves a booking by id.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByBookerAndState retrieves bookings requested by bookerID that
	// match the state predicate, optionally windowed by page.
	FindByBookerAndState(ctx context.Context, bookerID uuid.UUID, state State, now time.Time, page *domain.PageRequest) ([]*Booking, error)

	// FindByOwnerAndState retrieves bookings on items owned by ownerID that
	// match the state predicate, optionally windowed by page.
	FindByOwnerAndState(ctx context.Context, ownerID uuid.UUID, state State, now time.Time, page *domain.PageRequest) ([]*Booking, error)

	// HasFinishedBooking reports whether bookerID has at least one booking
	// of itemID whose end is strictly before now, regardless of status.
	HasFinishedBooking(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error)

	// LastApprovedForItems returns, per item, the approved booking starting
	// before now with the latest end.
	LastApprovedForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// NextApprovedForItems returns, per item, the approved booking with the
	// smallest start after now.
	NextApprovedForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking.
	Update(ctx context.Context, b *Booking) error
}
