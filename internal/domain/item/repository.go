package item

import (
	"context"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// ItemRepository defines the persistence contract for items.
type ItemRepository interface {
	// FindByID retrieves an item by id.
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwnerID retrieves the owner's items ordered by creation time,
	// optionally windowed by page.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page *domain.PageRequest) ([]*Item, error)

	// FindByRequestIDs retrieves items created against any of the given
	// requests, keyed by request id.
	FindByRequestIDs(ctx context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]*Item, error)

	// Search retrieves available items whose name or description contains
	// text (case-insensitive), optionally windowed by page.
	Search(ctx context.Context, text string, page *domain.PageRequest) ([]*Item, error)

	// ExistsByID reports whether an item with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Save persists a new item.
	Save(ctx context.Context, it *Item) error

	// Update persists changes to an existing item.
	Update(ctx context.Context, it *Item) error

	// Delete removes an item by id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository defines the persistence contract for item comments.
type CommentRepository interface {
	// Save persists a new comment.
	Save(ctx context.Context, c *Comment) error

	// FindByItemIDs retrieves comments for a set of items, keyed by item id.
	FindByItemIDs(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*Comment, error)
}
