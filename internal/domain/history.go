package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// HistoryAction names the kind of mutation a history entry records
type HistoryAction string

const (
	ActionCreate     HistoryAction = "CREATE"
	ActionUpdate     HistoryAction = "UPDATE"
	ActionBulkImport HistoryAction = "BULK_IMPORT"
)

// HistoryEntry is one append-only record of the history log.
// ItemID is nil for bulk operations.
type HistoryEntry struct {
	ItemID  *int64          `json:"itemId,omitempty"`
	Action  HistoryAction   `json:"action"`
	Changes json.RawMessage `json:"changes"`
	Date    time.Time       `json:"date"`
}

// UpdateChanges is the payload of an UPDATE entry
type UpdateChanges struct {
	Old InventoryItem `json:"old"`
	New InventoryItem `json:"new"`
}

// BulkImportChanges is the payload of a BULK_IMPORT entry
type BulkImportChanges struct {
	ItemCount int             `json:"itemCount"`
	Items     []InventoryItem `json:"items"`
}

// NewCreateEntry records the full created item
func NewCreateEntry(item InventoryItem, at time.Time) (HistoryEntry, error) {
	return newEntry(&item.ID, ActionCreate, item, at)
}

// NewUpdateEntry records the item state before and after the update
func NewUpdateEntry(old, updated InventoryItem, at time.Time) (HistoryEntry, error) {
	return newEntry(&updated.ID, ActionUpdate, UpdateChanges{Old: old, New: updated}, at)
}

// NewBulkImportEntry records every item created by one import
func NewBulkImportEntry(items []InventoryItem, at time.Time) (HistoryEntry, error) {
	if items == nil {
		items = []InventoryItem{}
	}
	return newEntry(nil, ActionBulkImport, BulkImportChanges{ItemCount: len(items), Items: items}, at)
}

func newEntry(itemID *int64, action HistoryAction, changes interface{}, at time.Time) (HistoryEntry, error) {
	raw, err := json.Marshal(changes)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("failed to encode %s changes: %w", action, err)
	}
	var id *int64
	if itemID != nil {
		v := *itemID
		id = &v
	}
	return HistoryEntry{
		ItemID:  id,
		Action:  action,
		Changes: raw,
		Date:    at.UTC(),
	}, nil
}

// RefersTo reports whether the entry belongs to the given item
func (e HistoryEntry) RefersTo(itemID int64) bool {
	return e.ItemID != nil && *e.ItemID == itemID
}
