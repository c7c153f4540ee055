package request

import "github.com/google/uuid"

// SaleItemRequest represents one cart line of a checkout request
type SaleItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	UnitPrice  float64   `json:"unit_price" binding:"min=0"`
	TotalPrice float64   `json:"total_price" binding:"min=0"`
	IMEINumber *string   `json:"imei_number"`
}

// CreateSaleRequest represents a checkout request
type CreateSaleRequest struct {
	CustomerID     *uuid.UUID        `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	CustomerPhone  string            `json:"customer_phone"`
	Items          []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Subtotal       float64           `json:"subtotal" binding:"min=0"`
	TaxAmount      float64           `json:"tax_amount" binding:"min=0"`
	DiscountAmount float64           `json:"discount_amount" binding:"min=0"`
	TotalAmount    float64           `json:"total_amount" binding:"min=0"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
