package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          string     `json:"name" binding:"required,min=2,max=255"`
	SKU           *string    `json:"sku" binding:"omitempty,max=100"`
	IMEITrackable bool       `json:"imei_trackable"`
	Price         float64    `json:"price" binding:"min=0"`
	CostPrice     *float64   `json:"cost_price" binding:"omitempty,min=0"`
	StockQuantity int        `json:"stock_quantity" binding:"min=0"`
	MinStockAlert int        `json:"min_stock_alert" binding:"min=0"`
	ImageURL      *string    `json:"image_url"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          *string    `json:"name" binding:"omitempty,min=2,max=255"`
	SKU           *string    `json:"sku" binding:"omitempty,max=100"`
	IMEITrackable *bool      `json:"imei_trackable"`
	Price         *float64   `json:"price" binding:"omitempty,min=0"`
	CostPrice     *float64   `json:"cost_price" binding:"omitempty,min=0"`
	StockQuantity *int       `json:"stock_quantity" binding:"omitempty,min=0"`
	MinStockAlert *int       `json:"min_stock_alert" binding:"omitempty,min=0"`
	ImageURL      *string    `json:"image_url"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string  `json:"name" binding:"required,min=2,max=255"`
	Type *string `json:"type"`
}
