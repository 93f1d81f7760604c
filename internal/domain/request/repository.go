package request

import (
	"context"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// RequestRepository defines the persistence contract for item requests.
type RequestRepository interface {
	// FindByID retrieves a request by id.
	FindByID(ctx context.Context, id uuid.UUID) (*ItemRequest, error)

	// FindByRequesterID retrieves a user's own requests, newest first.
	FindByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]*ItemRequest, error)

	// FindOthers retrieves requests posted by anyone except requesterID,
	// newest first, optionally windowed by page.
	FindOthers(ctx context.Context, requesterID uuid.UUID, page *domain.PageRequest) ([]*ItemRequest, error)

	// ExistsByID reports whether a request with the given id exists.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// Save persists a new request.
	Save(ctx context.Context, r *ItemRequest) error
}
