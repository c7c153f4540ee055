package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Sale{},
		&entity.SaleItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestDecrementStockSufficient(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &entity.Product{Name: "Cable", Price: 500, StockQuantity: 10}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	ok, err := repo.DecrementStock(context.Background(), product.ID, 4)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if !ok {
		t.Fatal("expected the decrement to succeed")
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 6 {
		t.Errorf("expected stock 6, got %d", stored.StockQuantity)
	}
}

func TestDecrementStockInsufficientLeavesStockUntouched(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &entity.Product{Name: "Battery", Price: 2000, StockQuantity: 3}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	ok, err := repo.DecrementStock(context.Background(), product.ID, 4)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Fatal("expected the decrement to be refused")
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", stored.StockQuantity)
	}
}

func TestDecrementStockExactBalance(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &entity.Product{Name: "Screen", Price: 9000, StockQuantity: 2}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	ok, err := repo.DecrementStock(context.Background(), product.ID, 2)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a decrement down to zero to succeed")
	}

	// The shelf is now empty; nothing more can be taken.
	ok, err = repo.DecrementStock(context.Background(), product.ID, 1)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Fatal("expected a decrement from zero to be refused")
	}
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	ok, err := repo.DecrementStock(context.Background(), uuid.New(), 1)
	if err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}
	if ok {
		t.Fatal("expected a missing product to report failure")
	}
}

func TestIncrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	product := &entity.Product{Name: "Case", Price: 800, StockQuantity: 1}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	if err := repo.IncrementStock(context.Background(), product.ID, 5); err != nil {
		t.Fatalf("IncrementStock failed: %v", err)
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 6 {
		t.Errorf("expected stock 6, got %d", stored.StockQuantity)
	}
}
