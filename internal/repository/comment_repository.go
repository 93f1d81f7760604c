package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Text      string    `gorm:"not null;size:2000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CommentModel) TableName() string {
	return "comments"
}

// GormCommentRepository is the GORM-based implementation of CommentRepository.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	if err := r.db.WithContext(ctx).Create(toCommentModel(c)).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// FindByItemIDs retrieves comments for a set of items, keyed by item id.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*itemDomain.Comment, error) {
	result := make(map[uuid.UUID][]*itemDomain.Comment)
	if len(itemIDs) == 0 {
		return result, nil
	}

	var models []CommentModel
	err := r.db.WithContext(ctx).
		Where("item_id IN ?", itemIDs).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find comments by item IDs: %w", err)
	}

	for i := range models {
		m := &models[i]
		result[m.ItemID] = append(result[m.ItemID], toDomainComment(m))
	}
	return result, nil
}

// --- Conversion Helpers ---

func toCommentModel(c *itemDomain.Comment) *CommentModel {
	return &CommentModel{
		ID:        c.ID(),
		ItemID:    c.ItemID(),
		AuthorID:  c.AuthorID(),
		Text:      c.Text(),
		CreatedAt: c.Created(),
	}
}

func toDomainComment(m *CommentModel) *itemDomain.Comment {
	return itemDomain.ReconstructComment(m.ID, m.ItemID, m.AuthorID, m.Text, m.CreatedAt)
}

func toDomainComments(models []CommentModel) []*itemDomain.Comment {
	comments := make([]*itemDomain.Comment, len(models))
	for i := range models {
		comments[i] = toDomainComment(&models[i])
	}
	return comments
}
