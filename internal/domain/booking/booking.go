package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// Booking is a request by a booker to borrow an item for a time window.
// It is an independent record referencing both the item and the booker.
type Booking struct {
	id        uuid.UUID
	itemID    uuid.UUID
	bookerID  uuid.UUID
	status    Status
	start     time.Time
	end       time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a WAITING booking after validating the time window
// against now. The checks run in a fixed priority order: missing timestamps
// first, then a malformed window, then a window starting in the past.
func NewBooking(itemID, bookerID uuid.UUID, start, end *time.Time, now time.Time) (*Booking, error) {
	if start == nil || end == nil {
		return nil, domain.NewValidationError("booking interval is required")
	}
	if !end.After(*start) {
		return nil, domain.NewValidationError("booking end must be after start")
	}
	if start.Before(now) {
		return nil, domain.NewValidationError("booking interval is in the past")
	}

	created := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		start:     start.UTC(),
		end:       end.UTC(),
		createdAt: created,
		updatedAt: created,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, itemID, bookerID uuid.UUID,
	status Status,
	start, end time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		start:     start,
		end:       end,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) ItemID() uuid.UUID    { return b.itemID }
func (b *Booking) BookerID() uuid.UUID  { return b.bookerID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) Start() time.Time     { return b.start }
func (b *Booking) End() time.Time       { return b.end }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsBookedBy checks if the booking was requested by the given user.
func (b *Booking) IsBookedBy(userID uuid.UUID) bool {
	return b.bookerID == userID
}

// Decide sets the owner's decision. Repeated decisions overwrite silently;
// idempotency is deliberately not enforced.
func (b *Booking) Decide(approve bool) {
	if approve {
		b.status = StatusApproved
	} else {
		b.status = StatusRejected
	}
	b.updatedAt = time.Now().UTC()
}
