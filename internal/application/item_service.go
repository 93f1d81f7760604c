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
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// CreateItemRequest is the request DTO for listing a new item.
type CreateItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Available   *bool      `json:"available"`
	RequestID   *uuid.UUID `json:"request_id"`
}

// UpdateItemRequest is the request DTO for a partial item patch.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// CreateCommentRequest is the request DTO for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// BookingShortDTO is the compact booking projection attached to item views.
type BookingShortDTO struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentDTO is the API representation of an item comment.
type CommentDTO struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

// ItemDTO is the API representation of an item. LastBooking and NextBooking
// are only populated when the caller owns the item.
type ItemDTO struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	RequestID   *uuid.UUID       `json:"request_id,omitempty"`
	LastBooking *BookingShortDTO `json:"last_booking"`
	NextBooking *BookingShortDTO `json:"next_booking"`
	Comments    []CommentDTO     `json:"comments"`
}

// ItemService implements item listing, patching, enriched views, search
// and gated comment creation.
type ItemService struct {
	items    itemDomain.ItemRepository
	comments itemDomain.CommentRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	requests requestDomain.RequestRepository
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	comments itemDomain.CommentRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	requests requestDomain.RequestRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		bookings: bookings,
		users:    users,
		requests: requests,
		logger:   logger,
	}
}

// CreateItem lists a new item for ownerID, optionally against a request.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owner existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("User", ownerID.String())
	}

	if req.Available == nil {
		return nil, domain.NewValidationError("item availability is required")
	}
	if req.RequestID != nil {
		found, err := s.requests.ExistsByID(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check request existence: %w", err)
		}
		if !found {
			return nil, domain.NewNotFoundError("ItemRequest", req.RequestID.String())
		}
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item listed",
		zap.String("item_id", it.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)
	dto := toItemDTO(it)
	dto.Comments = []CommentDTO{}
	return &dto, nil
}

// UpdateItem applies a partial patch, verifying ownership.
func (s *ItemService) UpdateItem(ctx context.Context, callerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(callerID) {
		return nil, domain.NewForbiddenError("only the owner may update an item")
	}

	it.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("item updated", zap.String("item_id", itemID.String()))
	dto := toItemDTO(it)
	dto.Comments = []CommentDTO{}
	return &dto, nil
}

// DeleteItem removes an item, verifying ownership. No cascade safeguards
// are applied.
func (s *ItemService) DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !it.IsOwnedBy(callerID) {
		return domain.NewForbiddenError("only the owner may delete an item")
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.logger.Info("item deleted", zap.String("item_id", itemID.String()))
	return nil
}

// GetItem returns the enriched item view. Comments are always attached;
// last/next approved bookings only when the caller is the owner.
func (s *ItemService) GetItem(ctx context.Context, callerID, itemID uuid.UUID) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enrich(ctx, []*itemDomain.Item{it}, it.IsOwnedBy(callerID))
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// GetOwnerItems returns the caller's items, each with comments and last/next
// approved bookings attached.
func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID uuid.UUID, from, size *int) ([]ItemDTO, error) {
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

	items, err := s.items.FindByOwnerID(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return s.enrich(ctx, items, true)
}

// SearchItems returns available items matching text in name or description.
// Blank text yields an empty list.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size *int) ([]ItemDTO, error) {
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	items, err := s.items.Search(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
		dtos[i].Comments = []CommentDTO{}
	}
	return dtos, nil
}

// AddComment creates a comment on an item. The author must have at least one
// booking of the item that ended before now; booking status is intentionally
// not part of the gate.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID uuid.UUID, req CreateCommentRequest) (*CommentDTO, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.items.ExistsByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("Item", itemID.String())
	}

	qualifies, err := s.bookings.HasFinishedBooking(ctx, itemID, authorID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to check comment eligibility: %w", err)
	}
	if !qualifies {
		return nil, domain.NewValidationError(
			fmt.Sprintf("user %s cannot comment on item %s without a finished booking", authorID, itemID))
	}

	comment, err := itemDomain.NewComment(itemID, authorID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.logger.Info("comment added",
		zap.String("item_id", itemID.String()),
		zap.String("author_id", authorID.String()),
	)
	return &CommentDTO{
		ID:         comment.ID(),
		Text:       comment.Text(),
		AuthorName: author.Name(),
		Created:    comment.Created(),
	}, nil
}

// --- Helpers ---

// enrich attaches comments to each item and, when the caller is the owner,
// the last/next approved bookings. The join is computed at read time.
func (s *ItemService) enrich(ctx context.Context, items []*itemDomain.Item, forOwner bool) ([]ItemDTO, error) {
	itemIDs := make([]uuid.UUID, len(items))
	for i, it := range items {
		itemIDs[i] = it.ID()
	}

	commentsByItem, err := s.comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	var last, next map[uuid.UUID]*bookingDomain.Booking
	if forOwner {
		now := time.Now().UTC()
		if last, err = s.bookings.LastApprovedForItems(ctx, itemIDs, now); err != nil {
			return nil, fmt.Errorf("failed to load last bookings: %w", err)
		}
		if next, err = s.bookings.NextApprovedForItems(ctx, itemIDs, now); err != nil {
			return nil, fmt.Errorf("failed to load next bookings: %w", err)
		}
	}

	authorNames, err := s.commentAuthorNames(ctx, commentsByItem)
	if err != nil {
		return nil, err
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dto := toItemDTO(it)
		dto.Comments = toCommentDTOs(commentsByItem[it.ID()], authorNames)
		if forOwner {
			dto.LastBooking = toBookingShortDTO(last[it.ID()])
			dto.NextBooking = toBookingShortDTO(next[it.ID()])
		}
		dtos[i] = dto
	}
	return dtos, nil
}

func (s *ItemService) commentAuthorNames(ctx context.Context, commentsByItem map[uuid.UUID][]*itemDomain.Comment) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	var authorIDs []uuid.UUID
	for _, comments := range commentsByItem {
		for _, c := range comments {
			if _, ok := seen[c.AuthorID()]; !ok {
				seen[c.AuthorID()] = struct{}{}
				authorIDs = append(authorIDs, c.AuthorID())
			}
		}
	}

	authors, err := s.users.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}

	names := make(map[uuid.UUID]string, len(authors))
	for id, u := range authors {
		names[id] = u.Name()
	}
	return names, nil
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}

func toCommentDTOs(comments []*itemDomain.Comment, authorNames map[uuid.UUID]string) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = CommentDTO{
			ID:         c.ID(),
			Text:       c.Text(),
			AuthorName: authorNames[c.AuthorID()],
			Created:    c.Created(),
		}
	}
	return dtos
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.BookerID(),
		Start:    bk.Start(),
		End:      bk.End(),
	}
}
