package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/domain"
	"inventory-service/internal/events"
	"inventory-service/internal/repository"

	"go.uber.org/zap"
)

// CreateItemCommand represents a command to create a new inventory item
type CreateItemCommand struct {
	Fields domain.ItemFields
}

// UpdateItemCommand represents a command to merge a partial update onto an item
type UpdateItemCommand struct {
	ID    int64
	Patch domain.ItemPatch
}

// ImportItemsCommand represents a command to create many items from one upload
type ImportItemsCommand struct {
	Items []domain.ItemFields
}

// commitTimeout bounds the history append and cache invalidation that follow
// a store write. They run detached from the request so a client disconnect
// cannot leave a stored change without its history entry.
const commitTimeout = 10 * time.Second

// Handler executes write commands. Every command holds the writer lock for the
// whole store write plus history append, so the record store and the history
// log never interleave between two requests. Events are published after the
// lock is released.
type Handler struct {
	mu        sync.Mutex
	items     repository.InventoryRepository
	history   repository.HistoryRepository
	publisher events.EventPublisher
	cache     cache.Cache
	logger    *zap.Logger
	now       func() time.Time
}

func NewHandler(store repository.Store, publisher events.EventPublisher, c cache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		items:     store.Items(),
		history:   store.History(),
		publisher: publisher,
		cache:     c,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCreate stores a new item and records a CREATE entry
func (h *Handler) HandleCreate(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	if err := cmd.Fields.Validate(); err != nil {
		return nil, err
	}

	var item *domain.InventoryItem
	entry, err := h.commit(ctx,
		func(ctx context.Context) (err error) {
			item, err = h.items.Create(ctx, cmd.Fields)
			if err != nil {
				return fmt.Errorf("failed to save item: %w", err)
			}
			return nil
		},
		func() (domain.HistoryEntry, error) { return domain.NewCreateEntry(*item, h.now()) },
	)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, events.InventoryItemCreatedEvent{
		ItemID:     item.ID,
		Item:       *item,
		OccurredAt: entry.Date,
	})
	h.logger.Info("Item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// HandleUpdate merges the patch onto an existing item and records an UPDATE
// entry. A missing item yields domain.ErrItemNotFound and no entry.
func (h *Handler) HandleUpdate(ctx context.Context, cmd UpdateItemCommand) (*domain.InventoryItem, error) {
	if err := cmd.Patch.Validate(); err != nil {
		return nil, err
	}

	var old, updated *domain.InventoryItem
	entry, err := h.commit(ctx,
		func(ctx context.Context) (err error) {
			old, updated, err = h.items.Update(ctx, cmd.ID, cmd.Patch)
			if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
				return fmt.Errorf("failed to update item: %w", err)
			}
			return err
		},
		func() (domain.HistoryEntry, error) { return domain.NewUpdateEntry(*old, *updated, h.now()) },
	)
	if err != nil {
		return nil, err
	}

	h.publish(ctx, events.InventoryItemUpdatedEvent{
		ItemID:     updated.ID,
		Old:        *old,
		New:        *updated,
		OccurredAt: entry.Date,
	})
	h.logger.Info("Item updated", zap.Int64("item_id", updated.ID))
	return updated, nil
}

// HandleImport stores all items with one write and records a single
// BULK_IMPORT entry. It returns the number of items created.
func (h *Handler) HandleImport(ctx context.Context, cmd ImportItemsCommand) (int, error) {
	for _, fields := range cmd.Items {
		if err := fields.Validate(); err != nil {
			return 0, err
		}
	}

	var created []domain.InventoryItem
	entry, err := h.commit(ctx,
		func(ctx context.Context) (err error) {
			created, err = h.items.BulkCreate(ctx, cmd.Items)
			if err != nil {
				return fmt.Errorf("failed to import items: %w", err)
			}
			return nil
		},
		func() (domain.HistoryEntry, error) { return domain.NewBulkImportEntry(created, h.now()) },
	)
	if err != nil {
		return 0, err
	}

	h.publish(ctx, events.InventoryItemsImportedEvent{
		ItemCount:  len(created),
		Items:      created,
		OccurredAt: entry.Date,
	})
	h.logger.Info("Items imported", zap.Int("count", len(created)))
	return len(created), nil
}

// commit runs write under the writer lock and then appends the history entry
// built by record. Once write succeeds the cached reads are dropped, even
// when the history append fails.
func (h *Handler) commit(ctx context.Context, write func(ctx context.Context) error, record func() (domain.HistoryEntry, error)) (domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := write(ctx); err != nil {
		return domain.HistoryEntry{}, err
	}

	commitCtx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	defer h.invalidate(commitCtx)

	entry, err := record()
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	if err := h.history.Append(commitCtx, entry); err != nil {
		h.logger.Error("Failed to append history entry",
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
		return domain.HistoryEntry{}, fmt.Errorf("failed to append history: %w", err)
	}
	return entry, nil
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.DeleteByPattern(ctx, cache.PatternAll); err != nil {
		h.logger.Warn("Failed to invalidate cache", zap.Error(err))
	}
}

// publish is best effort; a failure never fails the command
func (h *Handler) publish(ctx context.Context, event interface{}) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Error("Failed to publish event", zap.Error(err))
	}
}
