package item

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// Comment is a remark left on an item by a past booker.
type Comment struct {
	id       uuid.UUID
	itemID   uuid.UUID
	authorID uuid.UUID
	text     string
	created  time.Time
}

// NewComment creates a new Comment on itemID authored by authorID.
func NewComment(itemID, authorID uuid.UUID, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("comment text is required")
	}
	return &Comment{
		id:       uuid.New(),
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  time.Now().UTC(),
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence data.
func ReconstructComment(id, itemID, authorID uuid.UUID, text string, created time.Time) *Comment {
	return &Comment{
		id:       id,
		itemID:   itemID,
		authorID: authorID,
		text:     text,
		created:  created,
	}
}

func (c *Comment) ID() uuid.UUID       { return c.id }
func (c *Comment) ItemID() uuid.UUID   { return c.itemID }
func (c *Comment) AuthorID() uuid.UUID { return c.authorID }
func (c *Comment) Text() string        { return c.text }
func (c *Comment) Created() time.Time  { return c.created }
