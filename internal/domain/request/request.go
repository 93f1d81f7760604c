package request

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// ItemRequest is a user's post asking for an item they need. Other users
// may list items against it. Requests are never updated once created.
type ItemRequest struct {
	id          uuid.UUID
	requesterID uuid.UUID
	description string
	created     time.Time
}

// NewItemRequest creates a new ItemRequest for requesterID.
func NewItemRequest(requesterID uuid.UUID, description string) (*ItemRequest, error) {
	if requesterID == uuid.Nil {
		return nil, domain.NewValidationError("requester ID is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &ItemRequest{
		id:          uuid.New(),
		requesterID: requesterID,
		description: description,
		created:     time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data.
func Reconstruct(id, requesterID uuid.UUID, description string, created time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		requesterID: requesterID,
		description: description,
		created:     created,
	}
}

func (r *ItemRequest) ID() uuid.UUID          { return r.id }
func (r *ItemRequest) RequesterID() uuid.UUID { return r.requesterID }
func (r *ItemRequest) Description() string    { return r.description }
func (r *ItemRequest) Created() time.Time     { return r.created }
