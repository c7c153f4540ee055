package service

import (
	"context"
	"errors"
	"time"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// jobCardAttempts bounds the regenerate-and-retry loop for job card
// number collisions
const jobCardAttempts = 3

// RepairService handles repair job cards: intake, listing and the
// status workflow. Intake shares the find-or-create customer pattern
// with checkout and runs as one unit of work.
type RepairService struct {
	repairRepo repository.RepairRepository
	userRepo   repository.UserRepository
	customers  *CustomerService
	refs       ReferenceGenerator
	tx         repository.TxManager
}

// NewRepairService creates a new repair service
func NewRepairService(
	repairRepo repository.RepairRepository,
	userRepo repository.UserRepository,
	customers *CustomerService,
	refs ReferenceGenerator,
	tx repository.TxManager,
) *RepairService {
	return &RepairService{
		repairRepo: repairRepo,
		userRepo:   userRepo,
		customers:  customers,
		refs:       refs,
		tx:         tx,
	}
}

// CreateRepairInput represents a repair intake request. Costs arrive
// as decimals and are stored as cents.
type CreateRepairInput struct {
	CustomerName         string
	CustomerPhone        string
	DeviceModel          string
	IMEIOrSerial         *string
	IssueDescription     *string
	EstimatedCost        *float64
	AdvancePayment       float64
	TechnicianID         *uuid.UUID
	ExpectedDeliveryDate *time.Time
}

func (input *CreateRepairInput) validate() error {
	if input.CustomerPhone == "" {
		return apperror.NewBadRequestError("Customer phone is required")
	}
	if input.DeviceModel == "" {
		return apperror.NewBadRequestError("Device model is required")
	}
	if input.AdvancePayment < 0 {
		return apperror.NewBadRequestError("Advance payment cannot be negative")
	}
	if input.EstimatedCost != nil && *input.EstimatedCost < 0 {
		return apperror.NewBadRequestError("Estimated cost cannot be negative")
	}
	return nil
}

// CreateRepair opens a job card: resolve or create the customer, assign
// a job card number and create the repair in pending status, all inside
// one unit of work. A job card number collision rolls the attempt back
// and retries with a fresh number.
func (s *RepairService) CreateRepair(ctx context.Context, input *CreateRepairInput) (*entity.Repair, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.TechnicianID != nil {
		technician, err := s.userRepo.GetByID(ctx, *input.TechnicianID)
		if err != nil {
			return nil, err
		}
		if technician == nil {
			return nil, apperror.NewNotFoundError("Technician")
		}
	}

	var repairID uuid.UUID

	var err error
	for attempt := 0; attempt < jobCardAttempts; attempt++ {
		err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			customer, err := s.customers.ResolveByPhone(txCtx, input.CustomerPhone, input.CustomerName)
			if err != nil {
				return err
			}

			var estimated *int64
			if input.EstimatedCost != nil {
				cents := toCents(*input.EstimatedCost)
				estimated = &cents
			}

			repair := &entity.Repair{
				JobCardNumber:        s.refs.JobCardNumber(),
				CustomerID:           customer.ID,
				DeviceModel:          input.DeviceModel,
				IMEIOrSerial:         input.IMEIOrSerial,
				IssueDescription:     input.IssueDescription,
				TechnicianID:         input.TechnicianID,
				Status:               enum.RepairStatusPending,
				EstimatedCost:        estimated,
				AdvancePayment:       toCents(input.AdvancePayment),
				ExpectedDeliveryDate: input.ExpectedDeliveryDate,
			}

			if err := s.repairRepo.Create(txCtx, repair); err != nil {
				return err
			}

			repairID = repair.ID
			return nil
		})

		if err == nil {
			break
		}
		// Duplicate-key failures are retryable: a fresh attempt picks
		// a new job card number, and a re-resolve of the customer
		// finds the row a concurrent request created.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewConflictError("Could not allocate a unique job card number")
	}

	repair, err := s.repairRepo.GetByID(ctx, repairID)
	if err != nil {
		return nil, err
	}
	return repair, nil
}

// GetRepair retrieves a repair by ID
func (s *RepairService) GetRepair(ctx context.Context, id uuid.UUID) (*entity.Repair, error) {
	repair, err := s.repairRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if repair == nil {
		return nil, apperror.NewNotFoundError("Repair")
	}
	return repair, nil
}

// ListRepairs lists repairs with filtering
func (s *RepairService) ListRepairs(ctx context.Context, params *repository.RepairFilterParams) (*pagination.PaginatedResult[entity.Repair], error) {
	repairs, total, err := s.repairRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(repairs, pag), nil
}

// UpdateRepairInput represents a partial repair update. Nil fields are
// left untouched, so a supplied zero (for example a final cost of 0.00
// on a warranty job) is distinguishable from an absent field.
type UpdateRepairInput struct {
	ID           uuid.UUID
	Status       *enum.RepairStatus
	FinalCost    *float64
	TechnicianID *uuid.UUID
}

// UpdateRepair merges the supplied fields into an existing repair.
// Status changes are validated against the workflow state machine.
func (s *RepairService) UpdateRepair(ctx context.Context, input *UpdateRepairInput) (*entity.Repair, error) {
	repair, err := s.repairRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if repair == nil {
		return nil, apperror.NewNotFoundError("Repair")
	}

	fields := make(map[string]interface{})

	if input.Status != nil && *input.Status != repair.Status {
		if !repair.Status.CanTransitionTo(*input.Status) {
			return nil, apperror.NewBadRequestError(
				"Cannot change repair status from " + repair.Status.String() + " to " + input.Status.String())
		}
		fields["status"] = *input.Status
	}

	if input.FinalCost != nil {
		if *input.FinalCost < 0 {
			return nil, apperror.NewBadRequestError("Final cost cannot be negative")
		}
		fields["final_cost"] = toCents(*input.FinalCost)
	}

	if input.TechnicianID != nil {
		technician, err := s.userRepo.GetByID(ctx, *input.TechnicianID)
		if err != nil {
			return nil, err
		}
		if technician == nil {
			return nil, apperror.NewNotFoundError("Technician")
		}
		fields["technician_id"] = *input.TechnicianID
	}

	if len(fields) > 0 {
		if err := s.repairRepo.UpdateFields(ctx, repair.ID, fields); err != nil {
			return nil, err
		}
	}

	return s.repairRepo.GetByID(ctx, input.ID)
}
