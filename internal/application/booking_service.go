package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
	"github.com/shareloop/service-sharing/internal/metrics"
)

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID  `json:"item_id" binding:"required"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	BookerID  uuid.UUID `json:"booker_id"`
	Status    string    `json:"status"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingEventPublisher publishes booking lifecycle events.
type BookingEventPublisher interface {
	PublishRequested(ctx context.Context, evt events.BookingRequestedEvent)
	PublishDecided(ctx context.Context, evt events.BookingDecidedEvent, approved bool)
}

// BookingService orchestrates booking use cases: creation, the owner's
// approve/reject decision and state-bucketed listings.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	items     itemDomain.ItemRepository
	users     userDomain.UserRepository
	publisher BookingEventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	publisher BookingEventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking requests a booking of an item for bookerID. The checks run
// in a fixed order: requester exists, item exists, time window valid,
// requester is not the owner, item is available.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	exists, err := s.users.ExistsByID(ctx, bookerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check booker existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", bookerID.String())
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(it.ID(), bookerID, req.Start, req.End, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if it.IsOwnedBy(bookerID) {
		return nil, domain.NewForbiddenError("owner cannot book their own item")
	}
	if !it.Available() {
		return nil, domain.NewValidationError(fmt.Sprintf("item %s is not available for booking", it.ID()))
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.IncBookingCreated()
	s.publisher.PublishRequested(ctx, events.BookingRequestedEvent{
		BookingID: bk.ID(),
		ItemID:    it.ID(),
		BookerID:  bookerID,
		OwnerID:   it.OwnerID(),
		Start:     bk.Start(),
		End:       bk.End(),
	})

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", it.ID().String()),
	)
	result := toBookingDTO(bk)
	return &result, nil
}

// DecideBooking records the owner's approve/reject decision. Only the item's
// owner may decide; repeated decisions overwrite silently.
func (s *BookingService) DecideBooking(ctx context.Context, actorID, bookingID uuid.UUID, approve bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(actorID) {
		return nil, domain.NewForbiddenError("only the item owner may decide a booking")
	}

	bk.Decide(approve)
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	metrics.IncBookingDecision(bk.Status().String())
	s.publisher.PublishDecided(ctx, events.BookingDecidedEvent{
		BookingID: bk.ID(),
		ItemID:    it.ID(),
		BookerID:  bk.BookerID(),
		OwnerID:   it.OwnerID(),
		Status:    bk.Status().String(),
	}, approve)

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
	)
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking, visible to its booker or the
// item's owner only.
func (s *BookingService) GetBooking(ctx context.Context, callerID, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}
	if !bk.IsBookedBy(callerID) && !it.IsOwnedBy(callerID) {
		return nil, domain.NewForbiddenError("booking is only visible to its booker or the item owner")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookerBookings lists the caller's bookings matching the state token,
// ordered by start descending. Parameter errors (unknown state token, bad
// pagination bounds) are raised before any repository call.
func (s *BookingService) GetBookerBookings(ctx context.Context, bookerID uuid.UUID, stateToken string, from, size *int) ([]BookingDTO, error) {
	state, err := bookingDomain.ParseState(stateToken)
	if err != nil {
		return nil, err
	}
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByID(ctx, bookerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check booker existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", bookerID.String())
	}

	bookings, err := s.bookings.FindByBookerAndState(ctx, bookerID, state, time.Now().UTC(), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// GetOwnerBookings lists bookings on the caller's items matching the state
// token, ordered by start descending.
func (s *BookingService) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, stateToken string, from, size *int) ([]BookingDTO, error) {
	state, err := bookingDomain.ParseState(stateToken)
	if err != nil {
		return nil, err
	}
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", ownerID.String())
	}

	bookings, err := s.bookings.FindByOwnerAndState(ctx, ownerID, state, time.Now().UTC(), page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    bk.Status().String(),
		Start:     bk.Start(),
		End:       bk.End(),
		CreatedAt: bk.CreatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
