package domain

import (
	"strings"
	"time"
)

// ItemFields holds the mutable attributes of an inventory item
type ItemFields struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Manufacturer string  `json:"manufacturer"`
	Unit         string  `json:"unit"`
	Location     string  `json:"location"`
	Description  string  `json:"description"`
	Stock        int     `json:"stock"`
	MinStock     int     `json:"minStock"`
	ReorderLevel int     `json:"reorderLevel"`
	UnitPrice    float64 `json:"unitPrice"`
	ExpiryDate   string  `json:"expiryDate,omitempty"`
}

// InventoryItem is a record of the inventory store. ID and AddedDate are
// assigned by the store on creation and never change afterwards.
type InventoryItem struct {
	ID int64 `json:"id"`
	ItemFields
	AddedDate time.Time `json:"addedDate"`
}

// NewInventoryItem builds an item from its fields, stamping id and creation time
func NewInventoryItem(id int64, fields ItemFields, addedAt time.Time) InventoryItem {
	return InventoryItem{
		ID:         id,
		ItemFields: fields,
		AddedDate:  addedAt.UTC(),
	}
}

// Validate checks that the fields describe a constructible item
func (f ItemFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if f.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock must be >= 0"}
	}
	if f.MinStock < 0 {
		return &ValidationError{Field: "minStock", Message: "minStock must be >= 0"}
	}
	if f.ReorderLevel < 0 {
		return &ValidationError{Field: "reorderLevel", Message: "reorderLevel must be >= 0"}
	}
	if f.UnitPrice < 0 {
		return &ValidationError{Field: "unitPrice", Message: "unitPrice must be >= 0"}
	}
	if f.ExpiryDate != "" && !IsValidDate(f.ExpiryDate) {
		return &ValidationError{Field: "expiryDate", Message: "expiryDate must be YYYY-MM-DD or RFC3339"}
	}
	return nil
}

// IsValidDate accepts a calendar date or a full RFC3339 timestamp
func IsValidDate(value string) bool {
	if _, err := time.Parse("2006-01-02", value); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, value)
	return err == nil
}

// ItemPatch is a partial update. Nil fields are left untouched.
type ItemPatch struct {
	Name         *string  `json:"name,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Subcategory  *string  `json:"subcategory,omitempty"`
	Manufacturer *string  `json:"manufacturer,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Stock        *int     `json:"stock,omitempty"`
	MinStock     *int     `json:"minStock,omitempty"`
	ReorderLevel *int     `json:"reorderLevel,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	ExpiryDate   *string  `json:"expiryDate,omitempty"`
}

// Apply returns a copy of item with every non-nil patch field overwritten
func (p ItemPatch) Apply(item InventoryItem) InventoryItem {
	updated := item
	setString(&updated.Name, p.Name)
	setString(&updated.Category, p.Category)
	setString(&updated.Subcategory, p.Subcategory)
	setString(&updated.Manufacturer, p.Manufacturer)
	setString(&updated.Unit, p.Unit)
	setString(&updated.Location, p.Location)
	setString(&updated.Description, p.Description)
	setString(&updated.ExpiryDate, p.ExpiryDate)
	setInt(&updated.Stock, p.Stock)
	setInt(&updated.MinStock, p.MinStock)
	setInt(&updated.ReorderLevel, p.ReorderLevel)
	if p.UnitPrice != nil {
		updated.UnitPrice = *p.UnitPrice
	}
	return updated
}

// Validate checks the patched fields with the same rules as creation
func (p ItemPatch) Validate() error {
	probe := p.Apply(InventoryItem{ItemFields: ItemFields{Name: "-"}})
	return probe.ItemFields.Validate()
}

// IsEmpty reports whether the patch changes nothing
func (p ItemPatch) IsEmpty() bool {
	return p == ItemPatch{}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// NextID returns the first id that is not below the creation timestamp and
// greater than every id already handed out.
func NextID(now time.Time, maxExisting int64) int64 {
	id := now.UnixMilli()
	if id <= maxExisting {
		id = maxExisting + 1
	}
	return id
}

// Domain errors
var (
	ErrItemNotFound = &DomainError{Message: "item not found"}
)

// DomainError represents a domain-level error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ValidationError reports a field that makes an item unconstructible
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
