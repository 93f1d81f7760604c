package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-sharing/internal/domain"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
)

// RequestModel is the GORM model for the item_requests table.
type RequestModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequesterID uuid.UUID `gorm:"type:uuid;index;not null"`
	Description string    `gorm:"not null;size:2000"`
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (RequestModel) TableName() string {
	return "item_requests"
}

// GormRequestRepository is the GORM-based implementation of RequestRepository.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID retrieves a request by id.
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*requestDomain.ItemRequest, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("ItemRequest", id.String())
		}
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return toDomainRequest(&model), nil
}

// FindByRequesterID retrieves a user's own requests, newest first.
func (r *GormRequestRepository) FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by requester: %w", err)
	}
	return toDomainRequests(models), nil
}

// FindOthers retrieves requests posted by anyone except requesterID,
// newest first.
func (r *GormRequestRepository) FindOthers(ctx context.Context, requesterID uuid.UUID, page *domain.PageRequest) ([]*requestDomain.ItemRequest, error) {
	q := r.db.WithContext(ctx).
		Where("requester_id <> ?", requesterID).
		Order("created_at DESC")
	if page != nil {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}

	var models []RequestModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find other users' requests: %w", err)
	}
	return toDomainRequests(models), nil
}

// ExistsByID reports whether a request with the given id exists.
func (r *GormRequestRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&RequestModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check request existence: %w", err)
	}
	return count > 0, nil
}

// Save persists a new request.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) error {
	if err := r.db.WithContext(ctx).Create(toRequestModel(req)).Error; err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toRequestModel(req *requestDomain.ItemRequest) *RequestModel {
	return &RequestModel{
		ID:          req.ID(),
		RequesterID: req.RequesterID(),
		Description: req.Description(),
		CreatedAt:   req.Created(),
	}
}

func toDomainRequest(m *RequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.CreatedAt)
}

func toDomainRequests(models []RequestModel) []*requestDomain.ItemRequest {
	requests := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		requests[i] = toDomainRequest(&models[i])
	}
	return requests
}
