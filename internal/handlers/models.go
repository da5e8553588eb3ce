package handlers

import "inventory-service/internal/domain"

// MessageResponse represents a plain message response
// @Description Response carrying a human readable message
type MessageResponse struct {
	Message string `json:"message" example:"Imported 3 items successfully"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"inventory-service"`
	Storage string `json:"storage" example:"json"`
}

// CreateItemRequest represents the request body for creating an item
// @Description Request to create a new inventory item
type CreateItemRequest struct {
	// Product name
	Name string `json:"name" binding:"required" example:"Aspirin"`

	Category     string `json:"category" example:"Medication"`
	Subcategory  string `json:"subcategory" example:"Analgesic"`
	Manufacturer string `json:"manufacturer" example:"Bayer"`
	Unit         string `json:"unit" example:"box"`
	Location     string `json:"location" example:"Shelf A3"`
	Description  string `json:"description" example:"500mg tablets"`

	// Quantities (must be >= 0)
	Stock        int `json:"stock" example:"100"`
	MinStock     int `json:"minStock" example:"10"`
	ReorderLevel int `json:"reorderLevel" example:"20"`

	// Price per unit (must be >= 0)
	UnitPrice float64 `json:"unitPrice" example:"2.5"`

	// Expiry date, YYYY-MM-DD or RFC3339 (optional)
	ExpiryDate string `json:"expiryDate" example:"2027-01-31"`
}

func (r CreateItemRequest) toFields() domain.ItemFields {
	return domain.ItemFields{
		Name:         r.Name,
		Category:     r.Category,
		Subcategory:  r.Subcategory,
		Manufacturer: r.Manufacturer,
		Unit:         r.Unit,
		Location:     r.Location,
		Description:  r.Description,
		Stock:        r.Stock,
		MinStock:     r.MinStock,
		ReorderLevel: r.ReorderLevel,
		UnitPrice:    r.UnitPrice,
		ExpiryDate:   r.ExpiryDate,
	}
}

// UpdateItemRequest is a partial update; omitted fields keep their values
// @Description Request to update some fields of an existing inventory item
type UpdateItemRequest struct {
	Name         *string  `json:"name" example:"Aspirin Forte"`
	Category     *string  `json:"category"`
	Subcategory  *string  `json:"subcategory"`
	Manufacturer *string  `json:"manufacturer"`
	Unit         *string  `json:"unit"`
	Location     *string  `json:"location"`
	Description  *string  `json:"description"`
	Stock        *int     `json:"stock" example:"50"`
	MinStock     *int     `json:"minStock"`
	ReorderLevel *int     `json:"reorderLevel"`
	UnitPrice    *float64 `json:"unitPrice"`
	ExpiryDate   *string  `json:"expiryDate"`
}

func (r UpdateItemRequest) toPatch() domain.ItemPatch {
	return domain.ItemPatch{
		Name:         r.Name,
		Category:     r.Category,
		Subcategory:  r.Subcategory,
		Manufacturer: r.Manufacturer,
		Unit:         r.Unit,
		Location:     r.Location,
		Description:  r.Description,
		Stock:        r.Stock,
		MinStock:     r.MinStock,
		ReorderLevel: r.ReorderLevel,
		UnitPrice:    r.UnitPrice,
		ExpiryDate:   r.ExpiryDate,
	}
}
