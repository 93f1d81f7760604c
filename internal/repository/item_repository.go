package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-sharing/internal/domain"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name        string     `gorm:"not null;size:255"`
	Description string     `gorm:"not null;size:2000"`
	Available   bool       `gorm:"not null;default:false"`
	RequestID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ItemModel) TableName() string {
	return "items"
}

// GormItemRepository is the GORM-based implementation of ItemRepository.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID retrieves an item by id.
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", id.String())
		}
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}
	return toDomainItem(&model), nil
}

// FindByOwnerID retrieves the owner's items ordered by creation time.
func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page *domain.PageRequest) ([]*itemDomain.Item, error) {
	q := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC")
	if page != nil {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}

	var models []ItemModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by owner: %w", err)
	}
	return toDomainItems(models), nil
}

// FindByRequestIDs retrieves items created against the given requests,
// keyed by request id.
func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]*itemDomain.Item, error) {
	result := make(map[uuid.UUID][]*itemDomain.Item)
	if len(requestIDs) == 0 {
		return result, nil
	}

	var models []ItemModel
	if err := r.db.WithContext(ctx).Where("request_id IN ?", requestIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by request IDs: %w", err)
	}

	for i := range models {
		m := &models[i]
		result[*m.RequestID] = append(result[*m.RequestID], toDomainItem(m))
	}
	return result, nil
}

// Search retrieves available items whose name or description contains text,
// case-insensitively. A blank text yields an empty result without querying.
func (r *GormItemRepository) Search(ctx context.Context, text string, page *domain.PageRequest) ([]*itemDomain.Item, error) {
	if text == "" {
		return []*itemDomain.Item{}, nil
	}

	pattern := "%" + text + "%"
	q := r.db.WithContext(ctx).
		Where("available = TRUE").
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Order("created_at ASC")
	if page != nil {
		q = q.Offset(page.Offset).Limit(page.Limit)
	}

	var models []ItemModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toDomainItems(models), nil
}

// ExistsByID reports whether an item with the given id exists.
func (r *GormItemRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ItemModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return count > 0, nil
}

// Save persists a new item.
func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	if err := r.db.WithContext(ctx).Create(toItemModel(it)).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// Update persists changes to an existing item.
func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	err := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"available":   model.Available,
			"updated_at":  model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// Delete removes an item by id.
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&ItemModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func toDomainItem(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Available,
		m.RequestID,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainItems(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toDomainItem(&models[i])
	}
	return items
}
