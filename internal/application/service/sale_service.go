package service

import (
	"context"
	"errors"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleService turns a checkout request into durable state or nothing.
// Customer resolution, the sale header, every line item and every stock
// decrement share one unit of work; the first failure rolls the whole
// checkout back.
type SaleService struct {
	saleRepo     repository.SaleRepository
	saleItemRepo repository.SaleItemRepository
	productRepo  repository.ProductRepository
	customers    *CustomerService
	refs         ReferenceGenerator
	tx           repository.TxManager
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	customers *CustomerService,
	refs ReferenceGenerator,
	tx repository.TxManager,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		customers:    customers,
		refs:         refs,
		tx:           tx,
	}
}

// SaleItemInput represents one cart line of a checkout request.
// Prices arrive as decimals and are stored as cents.
type SaleItemInput struct {
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  float64
	TotalPrice float64
	IMEINumber *string
}

// CreateSaleInput represents the checkout request. Totals are computed
// by the point-of-sale client and trusted as supplied.
type CreateSaleInput struct {
	UserID         uuid.UUID
	CustomerID     *uuid.UUID
	CustomerName   string
	CustomerPhone  string
	Items          []SaleItemInput
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	TotalAmount    float64
	PaymentMethod  enum.PaymentMethod
}

func (input *CreateSaleInput) validate() error {
	if len(input.Items) == 0 {
		return apperror.NewBadRequestError("Sale requires at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return apperror.NewBadRequestError("Item quantity must be at least 1")
		}
		if item.UnitPrice < 0 || item.TotalPrice < 0 {
			return apperror.NewBadRequestError("Item prices cannot be negative")
		}
	}
	if input.Subtotal < 0 || input.TaxAmount < 0 || input.DiscountAmount < 0 || input.TotalAmount < 0 {
		return apperror.NewBadRequestError("Sale amounts cannot be negative")
	}
	return nil
}

// CreateSale processes a checkout as a single unit of work:
// resolve or create the customer, generate an invoice number, create
// the sale header, then per line item load the product, apply the
// conditional stock decrement and record the item. Any failure aborts
// everything, including a customer created earlier in the same request.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var saleID uuid.UUID

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		customerID := input.CustomerID
		if customerID == nil && input.CustomerPhone != "" {
			customer, err := s.customers.ResolveByPhone(txCtx, input.CustomerPhone, input.CustomerName)
			if err != nil {
				return err
			}
			customerID = &customer.ID
		}

		sale := &entity.Sale{
			CustomerID:     customerID,
			UserID:         input.UserID,
			InvoiceNumber:  s.refs.InvoiceNumber(),
			Subtotal:       toCents(input.Subtotal),
			TaxAmount:      toCents(input.TaxAmount),
			DiscountAmount: toCents(input.DiscountAmount),
			TotalAmount:    toCents(input.TotalAmount),
			PaymentMethod:  input.PaymentMethod,
			Status:         enum.SaleStatusCompleted,
		}

		if err := s.saleRepo.Create(txCtx, sale); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.NewConflictError("Invoice number already exists").WithCause(err)
			}
			return err
		}

		items := make([]entity.SaleItem, 0, len(input.Items))
		for _, line := range input.Items {
			product, err := s.productRepo.GetByID(txCtx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return apperror.NewNotFoundError("Product")
			}

			ok, err := s.productRepo.DecrementStock(txCtx, product.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewStockConflictError(product.Name)
			}

			items = append(items, entity.SaleItem{
				SaleID:     sale.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  toCents(line.UnitPrice),
				TotalPrice: toCents(line.TotalPrice),
				IMEINumber: line.IMEINumber,
			})
		}

		if err := s.saleItemRepo.CreateBatch(txCtx, items); err != nil {
			return err
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write convenience outside the transaction
	return s.saleRepo.GetWithItems(ctx, saleID)
}

// GetSale retrieves a sale with its customer, items and products
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// VoidSale marks a completed sale void and restores the stock of every
// line item. Status flip and restock share one unit of work. The flip
// happens first and is conditional on the sale still being completed;
// of two concurrent voids only the one that wins the flip restocks, so
// stock can never be restored twice.
func (s *SaleService) VoidSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.GetWithItems(txCtx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}

		flipped, err := s.saleRepo.UpdateStatus(txCtx, sale.ID, enum.SaleStatusCompleted, enum.SaleStatusVoid)
		if err != nil {
			return err
		}
		if !flipped {
			return apperror.NewBadRequestError("Only completed sales can be voided")
		}

		for _, item := range sale.Items {
			if err := s.productRepo.IncrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.saleRepo.GetWithItems(ctx, id)
}

// toCents converts a decimal amount to cents
func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
