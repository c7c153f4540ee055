package repository

import (
	"context"
	"errors"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	domainRepo "github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repairRepository struct {
	db *gorm.DB
}

// NewRepairRepository creates a new repair repository
func NewRepairRepository(db *gorm.DB) domainRepo.RepairRepository {
	return &repairRepository{db: db}
}

func (r *repairRepository) Create(ctx context.Context, repair *entity.Repair) error {
	return dbFor(ctx, r.db).Create(repair).Error
}

func (r *repairRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Repair, error) {
	var repair entity.Repair
	err := dbFor(ctx, r.db).
		Preload("Customer").
		Preload("Technician").
		First(&repair, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &repair, err
}

// UpdateFields applies a partial update containing only the columns
// the caller explicitly supplied.
func (r *repairRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return dbFor(ctx, r.db).Model(&entity.Repair{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repairRepository) List(ctx context.Context, params *domainRepo.RepairFilterParams) ([]entity.Repair, int64, error) {
	var repairs []entity.Repair
	var total int64

	query := dbFor(ctx, r.db).Model(&entity.Repair{})

	if params.Search != "" {
		query = query.Where("job_card_number ILIKE ? OR device_model ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.TechnicianID != nil {
		query = query.Where("technician_id = ?", *params.TechnicianID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Technician").
		Order("created_at DESC").
		Find(&repairs).Error

	return repairs, total, err
}
