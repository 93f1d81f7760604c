package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/domain"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// CreateRequestRequest is the request DTO for posting an item request.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// ItemShortDTO is the compact item projection attached to request views.
type ItemShortDTO struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Name      string     `json:"name"`
	Available bool       `json:"available"`
	RequestID *uuid.UUID `json:"request_id"`
}

// RequestDTO is the API representation of an item request together with the
// items listed against it.
type RequestDTO struct {
	ID          uuid.UUID      `json:"id"`
	RequesterID uuid.UUID      `json:"requester_id"`
	Description string         `json:"description"`
	Created     time.Time      `json:"created"`
	Items       []ItemShortDTO `json:"items"`
}

// RequestService implements item-request posting and browsing.
type RequestService struct {
	requests requestDomain.RequestRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.RequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		logger:   logger,
	}
}

// CreateRequest posts a new item request for requesterID. The creation
// timestamp is server-assigned; requests are never updated afterwards.
func (s *RequestService) CreateRequest(ctx context.Context, requesterID uuid.UUID, req CreateRequestRequest) (*RequestDTO, error) {
	exists, err := s.users.ExistsByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check requester existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", requesterID.String())
	}

	r, err := requestDomain.NewItemRequest(requesterID, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save request: %w", err)
	}

	s.logger.Info("item request posted",
		zap.String("request_id", r.ID().String()),
		zap.String("requester_id", requesterID.String()),
	)
	dto := toRequestDTO(r)
	dto.Items = []ItemShortDTO{}
	return &dto, nil
}

// GetOwnRequests returns the caller's requests, newest first, with items.
func (s *RequestService) GetOwnRequests(ctx context.Context, requesterID uuid.UUID) ([]RequestDTO, error) {
	exists, err := s.users.ExistsByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check requester existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", requesterID.String())
	}

	requests, err := s.requests.FindByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

// GetOtherRequests returns requests posted by other users, newest first,
// with items and optional pagination.
func (s *RequestService) GetOtherRequests(ctx context.Context, callerID uuid.UUID, from, size *int) ([]RequestDTO, error) {
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check caller existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", callerID.String())
	}

	requests, err := s.requests.FindOthers(ctx, callerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list other users' requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

// GetRequest returns any request by id; the caller must be a registered user.
func (s *RequestService) GetRequest(ctx context.Context, callerID, requestID uuid.UUID) (*RequestDTO, error) {
	exists, err := s.users.ExistsByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check caller existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", callerID.String())
	}

	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	enriched, err := s.withItems(ctx, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// --- Helpers ---

func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.ItemRequest) ([]RequestDTO, error) {
	requestIDs := make([]uuid.UUID, len(requests))
	for i, r := range requests {
		requestIDs[i] = r.ID()
	}

	itemsByRequest, err := s.items.FindByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for requests: %w", err)
	}

	dtos := make([]RequestDTO, len(requests))
	for i, r := range requests {
		dto := toRequestDTO(r)
		dto.Items = toItemShortDTOs(itemsByRequest[r.ID()])
		dtos[i] = dto
	}
	return dtos, nil
}

func toRequestDTO(r *requestDomain.ItemRequest) RequestDTO {
	return RequestDTO{
		ID:          r.ID(),
		RequesterID: r.RequesterID(),
		Description: r.Description(),
		Created:     r.Created(),
	}
}

func toItemShortDTOs(items []*itemDomain.Item) []ItemShortDTO {
	dtos := make([]ItemShortDTO, len(items))
	for i, it := range items {
		dtos[i] = ItemShortDTO{
			ID:        it.ID(),
			OwnerID:   it.OwnerID(),
			Name:      it.Name(),
			Available: it.Available(),
			RequestID: it.RequestID(),
		}
	}
	return dtos
}
