package entity

import (
	"encoding/json"
	"time"

	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repair represents a device repair job card. Costs are stored in
// cents; estimated and final cost are nullable because both are
// unknown at intake for many jobs.
type Repair struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	JobCardNumber        string            `gorm:"size:100;unique;not null" json:"job_card_number"`
	CustomerID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	DeviceModel          string            `gorm:"size:255;not null" json:"device_model"`
	IMEIOrSerial         *string           `gorm:"size:100" json:"imei_or_serial,omitempty"`
	IssueDescription     *string           `gorm:"type:text" json:"issue_description,omitempty"`
	TechnicianID         *uuid.UUID        `gorm:"type:uuid;index" json:"technician_id,omitempty"`
	Status               enum.RepairStatus `gorm:"default:0" json:"status"`
	EstimatedCost        *int64            `json:"-"` // Stored in cents
	FinalCost            *int64            `json:"-"` // Stored in cents
	AdvancePayment       int64             `gorm:"default:0" json:"-"`
	ExpectedDeliveryDate *time.Time        `json:"expected_delivery_date,omitempty"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	DeletedAt            gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Customer   Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Technician *User    `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Repair) MarshalJSON() ([]byte, error) {
	type Alias Repair
	centsPtr := func(v *int64) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v) / 100
		return &f
	}
	return json.Marshal(&struct {
		Alias
		EstimatedCost  *float64 `json:"estimated_cost,omitempty"`
		FinalCost      *float64 `json:"final_cost,omitempty"`
		AdvancePayment float64  `json:"advance_payment"`
	}{
		Alias:          Alias(r),
		EstimatedCost:  centsPtr(r.EstimatedCost),
		FinalCost:      centsPtr(r.FinalCost),
		AdvancePayment: float64(r.AdvancePayment) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new repair
func (r *Repair) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Repair model
func (Repair) TableName() string {
	return "repairs"
}
