package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/kafka"
)

// TopicBookingEvents carries the booking lifecycle events.
const TopicBookingEvents = "sharing.booking.events"

// Booking event types.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

const eventSource = "service-sharing"

// BookingRequestedEvent is published when a booking enters WAITING.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingDecidedEvent is published when the owner approves or rejects.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	ItemID     uuid.UUID `json:"item_id"`
	BookerID   uuid.UUID `json:"booker_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingPublisher publishes booking lifecycle events. Publishing is
// best-effort: failures are logged and never surfaced to the API caller.
type BookingPublisher struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewBookingPublisher creates a new BookingPublisher.
func NewBookingPublisher(producer *kafka.Producer, logger *zap.Logger) *BookingPublisher {
	return &BookingPublisher{producer: producer, logger: logger}
}

// PublishRequested publishes a BookingRequestedEvent.
func (p *BookingPublisher) PublishRequested(ctx context.Context, evt BookingRequestedEvent) {
	evt.OccurredAt = time.Now().UTC()
	p.publish(ctx, BookingRequested, evt)
}

// PublishDecided publishes a BookingDecidedEvent with the matching type.
func (p *BookingPublisher) PublishDecided(ctx context.Context, evt BookingDecidedEvent, approved bool) {
	evt.OccurredAt = time.Now().UTC()
	eventType := BookingRejected
	if approved {
		eventType = BookingApproved
	}
	p.publish(ctx, eventType, evt)
}

func (p *BookingPublisher) publish(ctx context.Context, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
