package request

import (
	"time"

	"github.com/google/uuid"
)

// CreateRepairRequest represents a repair intake request
type CreateRepairRequest struct {
	CustomerName         string     `json:"customer_name"`
	CustomerPhone        string     `json:"customer_phone" binding:"required,min=5,max=20"`
	DeviceModel          string     `json:"device_model" binding:"required,min=2,max=255"`
	IMEIOrSerial         *string    `json:"imei_or_serial"`
	IssueDescription     *string    `json:"issue_description"`
	EstimatedCost        *float64   `json:"estimated_cost" binding:"omitempty,min=0"`
	AdvancePayment       float64    `json:"advance_payment" binding:"min=0"`
	TechnicianID         *uuid.UUID `json:"technician_id"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// UpdateRepairRequest represents a partial repair update request
type UpdateRepairRequest struct {
	Status       *string    `json:"status"`
	FinalCost    *float64   `json:"final_cost" binding:"omitempty,min=0"`
	TechnicianID *uuid.UUID `json:"technician_id"`
}

// RepairFilterRequest represents repair filter parameters
type RepairFilterRequest struct {
	Search       string `form:"search"`
	Status       string `form:"status"`
	CustomerID   string `form:"customer_id"`
	TechnicianID string `form:"technician_id"`
	Page         int    `form:"page"`
	PerPage      int    `form:"per_page"`
}
