package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	infraRepo "github.com/fixpointhq/fixpoint-api/internal/infrastructure/repository"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database for one test.
// TranslateError matches the production connection so duplicate-key
// handling behaves the same way.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying sql.DB: %v", err)
	}
	// A single connection keeps the shared in-memory database alive for
	// the whole test.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Repair{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// stubRefs returns scripted reference codes, then falls back to unique
// ones when the script runs out.
type stubRefs struct {
	invoices []string
	jobCards []string
}

func (s *stubRefs) InvoiceNumber() string {
	if len(s.invoices) > 0 {
		next := s.invoices[0]
		s.invoices = s.invoices[1:]
		return next
	}
	return "INV-" + uuid.New().String()
}

func (s *stubRefs) JobCardNumber() string {
	if len(s.jobCards) > 0 {
		next := s.jobCards[0]
		s.jobCards = s.jobCards[1:]
		return next
	}
	return "JC-" + uuid.New().String()
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *entity.User {
	t.Helper()
	user := &entity.User{
		Name:     "Test " + role,
		Email:    role + "-" + uuid.New().String() + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, priceCents int64, stock int) *entity.Product {
	t.Helper()
	product := &entity.Product{
		Name:          name,
		Price:         priceCents,
		StockQuantity: stock,
		MinStockAlert: 5,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

func newSaleService(db *gorm.DB, refs ReferenceGenerator) *SaleService {
	customerService := NewCustomerService(infraRepo.NewCustomerRepository(db))
	return NewSaleService(
		infraRepo.NewSaleRepository(db),
		infraRepo.NewSaleItemRepository(db),
		infraRepo.NewProductRepository(db),
		customerService,
		refs,
		infraRepo.NewTxManager(db),
	)
}

func newRepairService(db *gorm.DB, refs ReferenceGenerator) *RepairService {
	customerService := NewCustomerService(infraRepo.NewCustomerRepository(db))
	return NewRepairService(
		infraRepo.NewRepairRepository(db),
		infraRepo.NewUserRepository(db),
		customerService,
		refs,
		infraRepo.NewTxManager(db),
	)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}
