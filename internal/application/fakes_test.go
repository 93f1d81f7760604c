package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	requestDomain "github.com/shareloop/service-sharing/internal/domain/request"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
)

// In-memory repository fakes. They reproduce the ordering and filtering
// contracts of the GORM implementations so service tests can assert listing
// semantics without a database.

// --- users ---

type fakeUserRepo struct {
	order []uuid.UUID
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) add(u *userDomain.User) {
	if _, ok := r.users[u.ID()]; !ok {
		r.order = append(r.order, u.ID())
	}
	r.users[u.ID()] = u
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	out := make([]*userDomain.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out, nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*userDomain.User, error) {
	out := make(map[uuid.UUID]*userDomain.User)
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, except uuid.UUID) (bool, error) {
	for _, u := range r.users {
		if u.Email() == email && u.ID() != except {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// --- items ---

type fakeItemRepo struct {
	order []uuid.UUID
	items map[uuid.UUID]*itemDomain.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*itemDomain.Item)}
}

func (r *fakeItemRepo) add(it *itemDomain.Item) {
	if _, ok := r.items[it.ID()]; !ok {
		r.order = append(r.order, it.ID())
	}
	r.items[it.ID()] = it
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", id.String())
	}
	return it, nil
}

func (r *fakeItemRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, page *domain.PageRequest) ([]*itemDomain.Item, error) {
	var out []*itemDomain.Item
	for _, id := range r.order {
		if r.items[id].IsOwnedBy(ownerID) {
			out = append(out, r.items[id])
		}
	}
	return windowItems(out, page), nil
}

func (r *fakeItemRepo) FindByRequestIDs(_ context.Context, requestIDs []uuid.UUID) (map[uuid.UUID][]*itemDomain.Item, error) {
	wanted := make(map[uuid.UUID]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[uuid.UUID][]*itemDomain.Item)
	for _, id := range r.order {
		it := r.items[id]
		if it.RequestID() == nil {
			continue
		}
		if _, ok := wanted[*it.RequestID()]; ok {
			out[*it.RequestID()] = append(out[*it.RequestID()], it)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Search(_ context.Context, text string, page *domain.PageRequest) ([]*itemDomain.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*itemDomain.Item{}, nil
	}
	needle := strings.ToLower(text)
	var out []*itemDomain.Item
	for _, id := range r.order {
		it := r.items[id]
		if !it.Available() {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name()), needle) ||
			strings.Contains(strings.ToLower(it.Description()), needle) {
			out = append(out, it)
		}
	}
	return windowItems(out, page), nil
}

func (r *fakeItemRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.items[id]
	return ok, nil
}

func (r *fakeItemRepo) Save(_ context.Context, it *itemDomain.Item) error {
	r.add(it)
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *itemDomain.Item) error {
	r.items[it.ID()] = it
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// --- comments ---

type fakeCommentRepo struct {
	comments []*itemDomain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo { return &fakeCommentRepo{} }

func (r *fakeCommentRepo) Save(_ context.Context, c *itemDomain.Comment) error {
	r.comments = append(r.comments, c)
	return nil
}

func (r *fakeCommentRepo) FindByItemIDs(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID][]*itemDomain.Comment, error) {
	wanted := make(map[uuid.UUID]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[uuid.UUID][]*itemDomain.Comment)
	for _, c := range r.comments {
		if _, ok := wanted[c.ItemID()]; ok {
			out[c.ItemID()] = append(out[c.ItemID()], c)
		}
	}
	return out, nil
}

// --- requests ---

type fakeRequestRepo struct {
	order    []uuid.UUID
	requests map[uuid.UUID]*requestDomain.ItemRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*requestDomain.ItemRequest)}
}

func (r *fakeRequestRepo) add(req *requestDomain.ItemRequest) {
	if _, ok := r.requests[req.ID()]; !ok {
		r.order = append(r.order, req.ID())
	}
	r.requests[req.ID()] = req
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*requestDomain.ItemRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, domain.NewNotFoundError("ItemRequest", id.String())
	}
	return req, nil
}

func (r *fakeRequestRepo) FindByRequesterID(_ context.Context, requesterID uuid.UUID) ([]*requestDomain.ItemRequest, error) {
	var out []*requestDomain.ItemRequest
	for _, id := range r.order {
		if r.requests[id].RequesterID() == requesterID {
			out = append(out, r.requests[id])
		}
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

func (r *fakeRequestRepo) FindOthers(_ context.Context, requesterID uuid.UUID, page *domain.PageRequest) ([]*requestDomain.ItemRequest, error) {
	var out []*requestDomain.ItemRequest
	for _, id := range r.order {
		if r.requests[id].RequesterID() != requesterID {
			out = append(out, r.requests[id])
		}
	}
	sortRequestsNewestFirst(out)
	if page != nil {
		out = windowRequests(out, page)
	}
	return out, nil
}

func (r *fakeRequestRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.requests[id]
	return ok, nil
}

func (r *fakeRequestRepo) Save(_ context.Context, req *requestDomain.ItemRequest) error {
	r.add(req)
	return nil
}

// --- bookings ---

type fakeBookingRepo struct {
	bookings []*bookingDomain.Booking
	// itemOwners maps item id to owner id for the owner-scoped listing.
	itemOwners map[uuid.UUID]uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{itemOwners: make(map[uuid.UUID]uuid.UUID)}
}

func (r *fakeBookingRepo) setOwner(itemID, ownerID uuid.UUID) {
	r.itemOwners[itemID] = ownerID
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	for _, b := range r.bookings {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", id.String())
}

func (r *fakeBookingRepo) FindByBookerAndState(_ context.Context, bookerID uuid.UUID, state bookingDomain.State, now time.Time, page *domain.PageRequest) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if b.IsBookedBy(bookerID) && matchState(b, state, now) {
			out = append(out, b)
		}
	}
	sortBookingsStartDesc(out)
	return windowBookings(out, page), nil
}

func (r *fakeBookingRepo) FindByOwnerAndState(_ context.Context, ownerID uuid.UUID, state bookingDomain.State, now time.Time, page *domain.PageRequest) ([]*bookingDomain.Booking, error) {
	var out []*bookingDomain.Booking
	for _, b := range r.bookings {
		if r.itemOwners[b.ItemID()] == ownerID && matchState(b, state, now) {
			out = append(out, b)
		}
	}
	sortBookingsStartDesc(out)
	return windowBookings(out, page), nil
}

func (r *fakeBookingRepo) HasFinishedBooking(_ context.Context, itemID, bookerID uuid.UUID, now time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.ItemID() == itemID && b.IsBookedBy(bookerID) && b.End().Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) LastApprovedForItems(_ context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	out := make(map[uuid.UUID]*bookingDomain.Booking)
	for _, id := range itemIDs {
		for _, b := range r.bookings {
			if b.ItemID() != id || b.Status() != bookingDomain.StatusApproved || !b.Start().Before(now) {
				continue
			}
			if cur, ok := out[id]; !ok || b.End().After(cur.End()) {
				out[id] = b
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) NextApprovedForItems(_ context.Context, itemIDs []uuid.UUID, now time.Time) (map[uuid.UUID]*bookingDomain.Booking, error) {
	out := make(map[uuid.UUID]*bookingDomain.Booking)
	for _, id := range itemIDs {
		for _, b := range r.bookings {
			if b.ItemID() != id || b.Status() != bookingDomain.StatusApproved || !b.Start().After(now) {
				continue
			}
			if cur, ok := out[id]; !ok || b.Start().Before(cur.Start()) {
				out[id] = b
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *bookingDomain.Booking) error {
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *bookingDomain.Booking) error {
	for i, existing := range r.bookings {
		if existing.ID() == b.ID() {
			r.bookings[i] = b
			return nil
		}
	}
	return domain.NewNotFoundError("Booking", b.ID().String())
}

func matchState(b *bookingDomain.Booking, state bookingDomain.State, now time.Time) bool {
	switch state {
	case bookingDomain.StateCurrent:
		return b.Start().Before(now) && b.End().After(now)
	case bookingDomain.StatePast:
		return b.End().Before(now)
	case bookingDomain.StateFuture:
		return b.Start().After(now)
	case bookingDomain.StateWaiting:
		return b.Status() == bookingDomain.StatusWaiting
	case bookingDomain.StateRejected:
		return b.Status() == bookingDomain.StatusRejected
	default:
		return true
	}
}

func sortBookingsStartDesc(bookings []*bookingDomain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start().After(bookings[j].Start())
	})
}

func sortRequestsNewestFirst(requests []*requestDomain.ItemRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Created().After(requests[j].Created())
	})
}

func windowBookings(list []*bookingDomain.Booking, page *domain.PageRequest) []*bookingDomain.Booking {
	if page == nil {
		return list
	}
	if page.Offset >= len(list) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}

func windowItems(list []*itemDomain.Item, page *domain.PageRequest) []*itemDomain.Item {
	if page == nil {
		return list
	}
	if page.Offset >= len(list) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}

func windowRequests(list []*requestDomain.ItemRequest, page *domain.PageRequest) []*requestDomain.ItemRequest {
	if page.Offset >= len(list) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(list) {
		end = len(list)
	}
	return list[page.Offset:end]
}

// --- events ---

type fakePublisher struct {
	requested []events.BookingRequestedEvent
	decided   []events.BookingDecidedEvent
	approvals []bool
}

func (p *fakePublisher) PublishRequested(_ context.Context, evt events.BookingRequestedEvent) {
	p.requested = append(p.requested, evt)
}

func (p *fakePublisher) PublishDecided(_ context.Context, evt events.BookingDecidedEvent, approved bool) {
	p.decided = append(p.decided, evt)
	p.approvals = append(p.approvals, approved)
}
