package repository

import (
	"context"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/google/uuid"
)

// RepairFilterParams represents filtering options for repair listing
type RepairFilterParams struct {
	Pagination   *pagination.PaginationParams
	Search       string
	Status       *enum.RepairStatus
	CustomerID   *uuid.UUID
	TechnicianID *uuid.UUID
}

// RepairRepository defines repair job data access
type RepairRepository interface {
	Create(ctx context.Context, repair *entity.Repair) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Repair, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	List(ctx context.Context, params *RepairFilterParams) ([]entity.Repair, int64, error)
}
