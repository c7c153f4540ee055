package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/repository"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"github.com/fixpointhq/fixpoint-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService handles product catalogue operations. Stock mutation
// for sales goes through SaleService; here stock_quantity is only set
// directly by explicit inventory edits.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID    *uuid.UUID
	Name          string
	SKU           *string
	IMEITrackable bool
	Price         float64
	CostPrice     *float64
	StockQuantity int
	MinStockAlert int
	ImageURL      *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Product price cannot be negative")
	}
	if input.StockQuantity < 0 {
		return nil, apperror.NewBadRequestError("Stock quantity cannot be negative")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	var costPrice *int64
	if input.CostPrice != nil {
		cents := toCents(*input.CostPrice)
		costPrice = &cents
	}

	product := &entity.Product{
		CategoryID:    input.CategoryID,
		Name:          input.Name,
		SKU:           input.SKU,
		IMEITrackable: input.IMEITrackable,
		Price:         toCents(input.Price),
		CostPrice:     costPrice,
		StockQuantity: input.StockQuantity,
		MinStockAlert: input.MinStockAlert,
		ImageURL:      input.ImageURL,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("Product SKU already exists")
		}
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input. Nil fields
// are left untouched.
type UpdateProductInput struct {
	ID            uuid.UUID
	CategoryID    *uuid.UUID
	Name          *string
	SKU           *string
	IMEITrackable *bool
	Price         *float64
	CostPrice     *float64
	StockQuantity *int
	MinStockAlert *int
	ImageURL      *string
}

// UpdateProduct merges the supplied fields into an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewBadRequestError("Product name cannot be empty")
		}
		product.Name = *input.Name
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.SKU != nil {
		product.SKU = input.SKU
	}
	if input.IMEITrackable != nil {
		product.IMEITrackable = *input.IMEITrackable
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Product price cannot be negative")
		}
		product.Price = toCents(*input.Price)
	}
	if input.CostPrice != nil {
		cents := toCents(*input.CostPrice)
		product.CostPrice = &cents
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperror.NewBadRequestError("Stock quantity cannot be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.MinStockAlert != nil {
		product.MinStockAlert = *input.MinStockAlert
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	product.Category = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.NewConflictError("Product SKU already exists")
		}
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product from the catalogue
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// GetLowStock returns products at or below their alert level
func (s *ProductService) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// ImportProductRow represents one data row of an uploaded product sheet
type ImportProductRow struct {
	Name          string
	SKU           string
	CategoryName  string
	Price         float64
	CostPrice     *float64
	StockQuantity int
	MinStockAlert int
}

// ImportRowError describes why a row was rejected
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarises a bulk import
type ImportResult struct {
	TotalRows int              `json:"total_rows"`
	Imported  int              `json:"imported"`
	Errors    []ImportRowError `json:"errors,omitempty"`
}

// ImportProducts validates and bulk-creates products from parsed
// spreadsheet rows. Invalid rows are reported with their sheet row
// number; valid rows are still imported.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categoryMap := make(map[string]*uuid.UUID, len(categories))
	for i := range categories {
		categoryMap[strings.ToLower(categories[i].Name)] = &categories[i].ID
	}

	// SKUs seen in this batch, to catch duplicates within the file
	seenSKUs := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header, data starts at row 2

		if strings.TrimSpace(row.Name) == "" {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}
		if row.Price < 0 {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "price", Message: "Price cannot be negative"})
			continue
		}
		if row.StockQuantity < 0 {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "stock_quantity", Message: "Stock quantity cannot be negative"})
			continue
		}

		var sku *string
		if trimmed := strings.TrimSpace(row.SKU); trimmed != "" {
			if prevRow, exists := seenSKUs[trimmed]; exists {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Field:   "sku",
					Message: fmt.Sprintf("Duplicate SKU '%s' (same as row %d)", trimmed, prevRow),
				})
				continue
			}

			existing, err := s.productRepo.GetBySKU(ctx, trimmed)
			if err != nil {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "sku", Message: "Error checking SKU: " + err.Error()})
				continue
			}
			if existing != nil {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Field:   "sku",
					Message: fmt.Sprintf("Product SKU '%s' already exists", trimmed),
				})
				continue
			}

			seenSKUs[trimmed] = rowNum
			sku = &trimmed
		}

		var categoryID *uuid.UUID
		if row.CategoryName != "" {
			if id, ok := categoryMap[strings.ToLower(strings.TrimSpace(row.CategoryName))]; ok {
				categoryID = id
			}
		}

		var costPrice *int64
		if row.CostPrice != nil {
			cents := toCents(*row.CostPrice)
			costPrice = &cents
		}

		minAlert := row.MinStockAlert
		if minAlert <= 0 {
			minAlert = 5
		}

		validProducts = append(validProducts, entity.Product{
			CategoryID:    categoryID,
			Name:          strings.TrimSpace(row.Name),
			SKU:           sku,
			Price:         toCents(row.Price),
			CostPrice:     costPrice,
			StockQuantity: row.StockQuantity,
			MinStockAlert: minAlert,
		})
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, err
		}
		result.Imported = len(validProducts)
	}

	return result, nil
}
