package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleItem() InventoryItem {
	return NewInventoryItem(1700000000000, ItemFields{
		Name:         "Aspirin",
		Category:     "Medication",
		Subcategory:  "Analgesic",
		Manufacturer: "Bayer",
		Unit:         "box",
		Stock:        100,
		MinStock:     10,
		ReorderLevel: 20,
		UnitPrice:    2.5,
		ExpiryDate:   "2027-01-31",
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestNewInventoryItem(t *testing.T) {
	item := sampleItem()

	assert.Equal(t, int64(1700000000000), item.ID)
	assert.Equal(t, "Aspirin", item.Name)
	assert.Equal(t, 100, item.Stock)
	assert.Equal(t, time.UTC, item.AddedDate.Location())
}

func TestItemFields_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		fields ItemFields
		field  string
	}{
		{"Valid", ItemFields{Name: "Gauze", Stock: 1}, ""},
		{"MissingName", ItemFields{Name: "  "}, "name"},
		{"NegativeStock", ItemFields{Name: "Gauze", Stock: -1}, "stock"},
		{"NegativeMinStock", ItemFields{Name: "Gauze", MinStock: -1}, "minStock"},
		{"NegativeReorder", ItemFields{Name: "Gauze", ReorderLevel: -3}, "reorderLevel"},
		{"NegativePrice", ItemFields{Name: "Gauze", UnitPrice: -0.1}, "unitPrice"},
		{"BadExpiry", ItemFields{Name: "Gauze", ExpiryDate: "31/01/2027"}, "expiryDate"},
		{"RFC3339Expiry", ItemFields{Name: "Gauze", ExpiryDate: "2027-01-31T00:00:00Z"}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.fields.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestItemPatch_Apply_PreservesUntouchedFields(t *testing.T) {
	item := sampleItem()

	updated := ItemPatch{Stock: intPtr(50)}.Apply(item)

	assert.Equal(t, 50, updated.Stock)
	expected := item
	expected.Stock = 50
	assert.Equal(t, expected, updated)
	// original value is not mutated
	assert.Equal(t, 100, item.Stock)
}

func TestItemPatch_Apply_OverwritesEveryPresentField(t *testing.T) {
	item := sampleItem()

	patch := ItemPatch{
		Name:         strPtr("Aspirin 500"),
		Category:     strPtr("OTC"),
		Subcategory:  strPtr("Pain"),
		Manufacturer: strPtr("Generic"),
		Unit:         strPtr("strip"),
		Location:     strPtr("A-1"),
		Description:  strPtr("Tablets"),
		Stock:        intPtr(7),
		MinStock:     intPtr(2),
		ReorderLevel: intPtr(3),
		UnitPrice:    floatPtr(1.25),
		ExpiryDate:   strPtr(""),
	}
	updated := patch.Apply(item)

	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, item.AddedDate, updated.AddedDate)
	assert.Equal(t, "Aspirin 500", updated.Name)
	assert.Equal(t, "OTC", updated.Category)
	assert.Equal(t, "Pain", updated.Subcategory)
	assert.Equal(t, "Generic", updated.Manufacturer)
	assert.Equal(t, "strip", updated.Unit)
	assert.Equal(t, "A-1", updated.Location)
	assert.Equal(t, "Tablets", updated.Description)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, 2, updated.MinStock)
	assert.Equal(t, 3, updated.ReorderLevel)
	assert.Equal(t, 1.25, updated.UnitPrice)
	assert.Empty(t, updated.ExpiryDate)
}

func TestItemPatch_IsEmpty(t *testing.T) {
	assert.True(t, ItemPatch{}.IsEmpty())
	assert.False(t, ItemPatch{Stock: intPtr(0)}.IsEmpty())
}

func TestItemPatch_Validate(t *testing.T) {
	assert.NoError(t, ItemPatch{Stock: intPtr(50)}.Validate())
	assert.NoError(t, ItemPatch{}.Validate())

	var verr *ValidationError
	require.ErrorAs(t, ItemPatch{Stock: intPtr(-1)}.Validate(), &verr)
	assert.Equal(t, "stock", verr.Field)
	require.ErrorAs(t, ItemPatch{Name: strPtr(" ")}.Validate(), &verr)
	assert.Equal(t, "name", verr.Field)
	require.ErrorAs(t, ItemPatch{ExpiryDate: strPtr("31/01/2027")}.Validate(), &verr)
	assert.Equal(t, "expiryDate", verr.Field)
}

func TestNextID(t *testing.T) {
	now := time.UnixMilli(5000)

	assert.Equal(t, int64(5000), NextID(now, 10))
	assert.Equal(t, int64(5001), NextID(now, 5000))
	assert.Equal(t, int64(9000), NextID(now, 8999))
}

func TestInventoryItem_JSONShape(t *testing.T) {
	item := sampleItem()

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(1700000000000), decoded["id"])
	assert.Equal(t, "Aspirin", decoded["name"])
	assert.Equal(t, float64(2.5), decoded["unitPrice"])
	assert.Equal(t, float64(10), decoded["minStock"])
	assert.Equal(t, "2026-01-02T03:04:05Z", decoded["addedDate"])
}

func TestNewCreateEntry(t *testing.T) {
	item := sampleItem()
	at := time.Now()

	entry, err := NewCreateEntry(item, at)

	require.NoError(t, err)
	require.NotNil(t, entry.ItemID)
	assert.Equal(t, item.ID, *entry.ItemID)
	assert.Equal(t, ActionCreate, entry.Action)
	assert.True(t, entry.RefersTo(item.ID))

	var changes InventoryItem
	require.NoError(t, json.Unmarshal(entry.Changes, &changes))
	assert.Equal(t, item, changes)
}

func TestNewUpdateEntry(t *testing.T) {
	old := sampleItem()
	updated := ItemPatch{Stock: intPtr(50)}.Apply(old)

	entry, err := NewUpdateEntry(old, updated, time.Now())

	require.NoError(t, err)
	assert.Equal(t, ActionUpdate, entry.Action)
	var changes UpdateChanges
	require.NoError(t, json.Unmarshal(entry.Changes, &changes))
	assert.Equal(t, 100, changes.Old.Stock)
	assert.Equal(t, 50, changes.New.Stock)
}

func TestNewBulkImportEntry(t *testing.T) {
	items := []InventoryItem{sampleItem(), sampleItem()}

	entry, err := NewBulkImportEntry(items, time.Now())

	require.NoError(t, err)
	assert.Nil(t, entry.ItemID)
	assert.False(t, entry.RefersTo(items[0].ID))
	assert.Equal(t, ActionBulkImport, entry.Action)

	var changes BulkImportChanges
	require.NoError(t, json.Unmarshal(entry.Changes, &changes))
	assert.Equal(t, 2, changes.ItemCount)
	assert.Len(t, changes.Items, 2)

	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "itemId")
}
