package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable item in the inventory. Prices are
// stored in cents; StockQuantity is the authoritative on-hand count
// and is only ever decremented through the conditional update in the
// product repository.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	SKU           *string        `gorm:"size:100;unique" json:"sku,omitempty"`
	IMEITrackable bool           `gorm:"default:false" json:"imei_trackable"`
	Price         int64          `gorm:"not null" json:"-"`  // Stored in cents
	CostPrice     *int64         `json:"-"`                  // Stored in cents
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	MinStockAlert int            `gorm:"default:5" json:"min_stock_alert"`
	ImageURL      *string        `gorm:"size:255" json:"image_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	var costPrice *float64
	if p.CostPrice != nil {
		v := float64(*p.CostPrice) / 100
		costPrice = &v
	}
	return json.Marshal(&struct {
		Alias
		Price     float64  `json:"price"`
		CostPrice *float64 `json:"cost_price,omitempty"`
	}{
		Alias:     Alias(p),
		Price:     float64(p.Price) / 100,
		CostPrice: costPrice,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.Price) / 100
}

// SetPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetPriceFromDecimal(price float64) {
	p.Price = int64(price*100 + 0.5)
}

// IsLowStock reports whether on-hand stock has fallen to the alert level
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockAlert
}

// Category represents a product grouping, e.g. phones vs accessories
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Type      *string        `gorm:"size:100" json:"type,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
