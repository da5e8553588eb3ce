package repository

import (
	"context"
	"time"

	"inventory-service/internal/domain"
)

// InventoryRepository defines the interface for the inventory record store
type InventoryRepository interface {
	List(ctx context.Context) ([]domain.InventoryItem, error)
	Create(ctx context.Context, fields domain.ItemFields) (*domain.InventoryItem, error)
	// Update merges patch onto the stored item and returns the state before and after
	Update(ctx context.Context, id int64, patch domain.ItemPatch) (old, updated *domain.InventoryItem, err error)
	// BulkCreate stores every item with a single write. Ids are consecutive from one base timestamp.
	BulkCreate(ctx context.Context, fields []domain.ItemFields) ([]domain.InventoryItem, error)
}

// HistoryRepository defines the interface for the append-only change log
type HistoryRepository interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	ListFor(ctx context.Context, itemID int64) ([]domain.HistoryEntry, error)
}

// Store bundles both repositories of one storage backend
type Store interface {
	Items() InventoryRepository
	History() HistoryRepository
	Close() error
}

// Clock returns the current time; swapped in tests
type Clock func() time.Time

// Option configures a storage backend
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock overrides the time source used for ids and creation timestamps
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
