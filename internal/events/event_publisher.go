package events

import (
	"context"
	"sync"
	"time"

	"inventory-service/internal/domain"

	"go.uber.org/zap"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// Inventory domain events
type InventoryItemCreatedEvent struct {
	ItemID     int64                `json:"itemId"`
	Item       domain.InventoryItem `json:"item"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type InventoryItemUpdatedEvent struct {
	ItemID     int64                `json:"itemId"`
	Old        domain.InventoryItem `json:"old"`
	New        domain.InventoryItem `json:"new"`
	OccurredAt time.Time            `json:"occurredAt"`
}

type InventoryItemsImportedEvent struct {
	ItemCount  int                    `json:"itemCount"`
	Items      []domain.InventoryItem `json:"items"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// DefaultRetainedEvents is how many recent events the in-memory publisher keeps
const DefaultRetainedEvents = 100

// InMemoryEventPublisher keeps the most recent events in memory and drops
// older ones. It is used when Kafka is disabled or unreachable.
type InMemoryEventPublisher struct {
	logger *zap.Logger
	mu     sync.Mutex
	limit  int
	events []interface{}
	next   int
	full   bool
}

func NewInMemoryEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return NewBoundedEventPublisher(DefaultRetainedEvents, logger)
}

// NewBoundedEventPublisher retains at most limit events
func NewBoundedEventPublisher(limit int, logger *zap.Logger) *InMemoryEventPublisher {
	if limit < 1 {
		limit = 1
	}
	return &InMemoryEventPublisher{
		logger: logger,
		limit:  limit,
		events: make([]interface{}, limit),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	p.events[p.next] = event
	p.next = (p.next + 1) % p.limit
	if p.next == 0 {
		p.full = true
	}
	p.mu.Unlock()

	p.logger.Debug("Event published (in-memory)", zap.String("event-type", eventType(event)))
	return nil
}

// Events returns the retained events, oldest first
func (p *InMemoryEventPublisher) Events() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.full {
		out := make([]interface{}, p.next)
		copy(out, p.events[:p.next])
		return out
	}
	out := make([]interface{}, 0, p.limit)
	out = append(out, p.events[p.next:]...)
	return append(out, p.events[:p.next]...)
}

// eventType returns the event type as string
func eventType(event interface{}) string {
	switch event.(type) {
	case InventoryItemCreatedEvent:
		return "InventoryItemCreated"
	case InventoryItemUpdatedEvent:
		return "InventoryItemUpdated"
	case InventoryItemsImportedEvent:
		return "InventoryItemsImported"
	default:
		return "Unknown"
	}
}
