package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Status    string    `gorm:"not null;size:10;index"`
	StartAt   time.Time `gorm:"not null;index"`
	EndAt     time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBookerAndState retrieves bookings requested by bookerID matching the
// state predicate, ordered by start descending.
func (r *GormBookingRepository) FindByBookerAndState(
	ctx context.Context,
	bookerID uuid.UUID,
	state bookingDomain.State,
	now time.Time,
	page *domain.PageRequest,
) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("bookings.booker_id = ?", bookerID)
	return r.queryState(q, state, now, page)
}

// FindByOwnerAndState retrieves bookings on items owned by ownerID matching
// the state predicate, ordered by start descending.
func (r *GormBookingRepository) FindByOwnerAndState(
	ctx context.Context,
	ownerID uuid.UUID,
	state bookingDomain.State,
	now time.Time,
	page *domain.PageRequest,
) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	return r.queryState(q, state, now, page)
}

// queryState applies the state predicate, ordering and optional page window,
// then runs the query.
func (r *GormBookingRepository) queryState(
	q *gorm.DB,
	state bookingDomain.State,
	now time.Time,
	page *domain.PageRequest,
) ([]*bookingDomain.Booking, error) {
	q = stateFilter(q, state, now).Order("bookings.start_at DESC")
	if page != nil {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}

	var models []BookingModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings by state: %w", err)
	}
	return toDomainBookings(models)
}

// stateFilter translates a listing state into its predicate. The state set
// is closed, so the switch is exhaustive; both listing scopes share it.
func stateFilter(q *gorm.DB, state bookingDomain.State, now time.Time) *gorm.DB {
	switch state {
	case bookingDomain.StateCurrent:
		return q.Where("bookings.start_at < ? AND bookings.end_at > ?", now, now)
	case bookingDomain.StatePast:
		return q.Where("bookings.end_at < ?", now)
	case bookingDomain.StateFuture:
		return q.Where("bookings.start_at > ?", now)
	case bookingDomain.StateWaiting:
		return q.Where("bookings.status = ?", bookingDomain.StatusWaiting.String())
	case bookingDomain.StateRejected:
		return q.Where("bookings.status = ?", bookingDomain.StatusRejected.String())
	default: // StateAll
		return q
	}
}

// HasFinishedBooking reports whether bookerID has any booking of itemID that
// ended strictly before now. Status is intentionally not part of the
// predicate.
func (r *GormBookingRepository) HasFinishedBooking(ctx context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("item_id = ? AND booker_id = ? AND end_at < ?", itemID, bookerID, now).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

// LastApprovedForItems returns, per item, the approved booking starting
// before now with the latest end.
func (r *GormBookingRepository) LastApprovedForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return map[uuid.UUID]*bookingDomain.Booking{}, nil
	}

	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id IN ? AND status = ? AND start_at < ?", itemIDs, bookingDomain.StatusApproved.String(), now).
		Order("end_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find last approved bookings: %w", err)
	}
	return firstPerItem(models)
}

// NextApprovedForItems returns, per item, the approved booking with the
// smallest start after now.
func (r *GormBookingRepository) NextApprovedForItems(ctx context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	if len(itemIDs) == 0 {
		return map[uuid.UUID]*bookingDomain.Booking{}, nil
	}

	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("item_id IN ? AND status = ? AND start_at > ?", itemIDs, bookingDomain.StatusApproved.String(), now).
		Order("start_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find next approved bookings: %w", err)
	}
	return firstPerItem(models)
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(b)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking. Last write wins; the
// decision transition is deliberately unguarded.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	err := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"start_at":   model.StartAt,
			"end_at":     model.EndAt,
			"updated_at": model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

// firstPerItem keeps the first row seen per item, relying on the query's
// ordering to make that row the wanted one.
func firstPerItem(models []BookingModel) (map[uuid.UUID]*bookingDomain.Booking, error) {
	result := make(map[uuid.UUID]*bookingDomain.Booking)
	for i := range models {
		m := &models[i]
		if _, seen := result[m.ItemID]; seen {
			continue
		}
		bk, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		result[m.ItemID] = bk
	}
	return result, nil
}

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        b.ID(),
		ItemID:    b.ItemID(),
		BookerID:  b.BookerID(),
		Status:    b.Status().String(),
		StartAt:   b.Start(),
		EndAt:     b.End(),
		CreatedAt: b.CreatedAt(),
		UpdatedAt: b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.ItemID,
		m.BookerID,
		status,
		m.StartAt,
		m.EndAt,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
