package service

import (
	"context"
	"errors"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalkInCustomerName is used when a phone number arrives without a name
const WalkInCustomerName = "Walk-in Customer"

// CustomerService handles customer-related operations, including the
// find-or-create resolution shared by sales and repair intake
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// ResolveByPhone returns the customer identified by phone, creating one
// when none exists. It must be called on a transaction context: a newly
// created customer rolls back with the caller, so a failed sale or job
// card never leaks a customer row. The phone unique constraint is the
// backstop against concurrent double-creation.
func (s *CustomerService) ResolveByPhone(ctx context.Context, phone, name string) (*entity.Customer, error) {
	if phone == "" {
		return nil, apperror.NewBadRequestError("Customer phone is required")
	}

	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	if name == "" {
		name = WalkInCustomerName
	}

	customer = &entity.Customer{
		Name:  name,
		Phone: phone,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Keep the cause attached: a caller that retries on
			// duplicate keys can re-resolve and find the row that
			// won the race.
			return nil, apperror.NewConflictError("Customer with phone " + phone + " already exists").WithCause(err)
		}
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with optional name/phone search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input. Nil fields
// are left untouched.
type UpdateCustomerInput struct {
	ID            uuid.UUID
	Name          *string
	Email         *string
	LoyaltyPoints *int
	Notes         *string
}

// UpdateCustomer merges the supplied fields into an existing customer.
// The phone is the identifying key and cannot be changed here.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Customer name cannot be empty")
		}
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.LoyaltyPoints != nil {
		if *input.LoyaltyPoints < 0 {
			return nil, apperror.NewBadRequestError("Loyalty points cannot be negative")
		}
		customer.LoyaltyPoints = *input.LoyaltyPoints
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}
