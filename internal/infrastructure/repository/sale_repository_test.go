package repository

import (
	"context"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func createSaleForTest(t *testing.T, db *gorm.DB, status enum.SaleStatus) *entity.Sale {
	t.Helper()

	user := &entity.User{
		Name:     "Cashier",
		Email:    uuid.New().String() + "@example.com",
		Password: "not-a-real-hash",
		Role:     entity.RoleStaff,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	sale := &entity.Sale{
		UserID:        user.ID,
		InvoiceNumber: "INV-" + uuid.New().String(),
		TotalAmount:   1000,
		Status:        status,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("failed to create sale: %v", err)
	}
	return sale
}

func TestUpdateStatusFlipsWhenCurrentStatusMatches(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	sale := createSaleForTest(t, db, enum.SaleStatusCompleted)

	flipped, err := repo.UpdateStatus(context.Background(), sale.ID, enum.SaleStatusCompleted, enum.SaleStatusVoid)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !flipped {
		t.Fatal("expected the flip to succeed")
	}

	var stored entity.Sale
	if err := db.First(&stored, "id = ?", sale.ID).Error; err != nil {
		t.Fatalf("failed to reload sale: %v", err)
	}
	if stored.Status != enum.SaleStatusVoid {
		t.Errorf("expected void status, got %v", stored.Status)
	}
}

func TestUpdateStatusRefusesStaleCurrentStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	sale := createSaleForTest(t, db, enum.SaleStatusCompleted)

	flipped, err := repo.UpdateStatus(context.Background(), sale.ID, enum.SaleStatusCompleted, enum.SaleStatusVoid)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if !flipped {
		t.Fatal("expected the first flip to succeed")
	}

	// The second flip carries the same expectation the first one did,
	// so it must report that it lost.
	flipped, err = repo.UpdateStatus(context.Background(), sale.ID, enum.SaleStatusCompleted, enum.SaleStatusVoid)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if flipped {
		t.Fatal("expected the second flip to be refused")
	}

	var stored entity.Sale
	if err := db.First(&stored, "id = ?", sale.ID).Error; err != nil {
		t.Fatalf("failed to reload sale: %v", err)
	}
	if stored.Status != enum.SaleStatusVoid {
		t.Errorf("expected status to remain void, got %v", stored.Status)
	}
}

func TestUpdateStatusUnknownSale(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)

	flipped, err := repo.UpdateStatus(context.Background(), uuid.New(), enum.SaleStatusCompleted, enum.SaleStatusVoid)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if flipped {
		t.Fatal("expected a missing sale to report failure")
	}
}
