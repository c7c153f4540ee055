package entity

import (
	"encoding/json"
	"time"

	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale represents a completed checkout. The header is immutable after
// creation except for the status flip on void/return. Amounts are
// stored in cents.
type Sale struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID     *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	InvoiceNumber  string             `gorm:"size:100;unique;not null" json:"invoice_number"`
	Subtotal       int64              `gorm:"default:0" json:"-"`
	TaxAmount      int64              `gorm:"default:0" json:"-"`
	DiscountAmount int64              `gorm:"default:0" json:"-"`
	TotalAmount    int64              `gorm:"not null" json:"-"`
	PaymentMethod  enum.PaymentMethod `gorm:"default:0" json:"payment_method"`
	Status         enum.SaleStatus    `gorm:"default:0" json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User     User       `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		TaxAmount      float64 `json:"tax_amount"`
		DiscountAmount float64 `json:"discount_amount"`
		TotalAmount    float64 `json:"total_amount"`
	}{
		Alias:          Alias(s),
		Subtotal:       float64(s.Subtotal) / 100,
		TaxAmount:      float64(s.TaxAmount) / 100,
		DiscountAmount: float64(s.DiscountAmount) / 100,
		TotalAmount:    float64(s.TotalAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents one cart line of a sale. Rows are only ever
// created alongside their parent Sale.
type SaleItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	SaleID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int        `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  int64      `gorm:"not null" json:"-"` // Price at time of sale, in cents
	TotalPrice int64      `gorm:"not null" json:"-"` // Stored in cents
	IMEINumber *string    `gorm:"size:100" json:"imei_number,omitempty"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(si),
		UnitPrice:  float64(si.UnitPrice) / 100,
		TotalPrice: float64(si.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
