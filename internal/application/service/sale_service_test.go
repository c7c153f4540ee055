package service

import (
	"context"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"github.com/google/uuid"
)

func TestCreateSaleDecrementsStockAndRecordsItems(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)
	product := createTestProduct(t, db, "iPhone 13 Screen", 50000, 5)

	sale, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID:        user.ID,
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		Items: []SaleItemInput{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 500.00, TotalPrice: 1000.00},
		},
		Subtotal:      1000.00,
		TotalAmount:   1000.00,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	if sale.Status != enum.SaleStatusCompleted {
		t.Errorf("expected completed status, got %v", sale.Status)
	}
	if sale.InvoiceNumber == "" {
		t.Error("expected an invoice number")
	}
	if len(sale.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(sale.Items))
	}
	if sale.Items[0].TotalPrice != 100000 {
		t.Errorf("expected item total of 100000 cents, got %d", sale.Items[0].TotalPrice)
	}
	if sale.TotalAmount != 100000 {
		t.Errorf("expected sale total of 100000 cents, got %d", sale.TotalAmount)
	}
	if sale.Customer == nil || sale.Customer.Name != "Asha" {
		t.Error("expected the resolved customer on the sale")
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 3 {
		t.Errorf("expected stock 3 after selling 2 of 5, got %d", stored.StockQuantity)
	}
}

func TestCreateSaleInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)
	plenty := createTestProduct(t, db, "USB Cable", 500, 50)
	scarce := createTestProduct(t, db, "Battery Pack", 2000, 1)

	_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID:        user.ID,
		CustomerName:  "Ravi",
		CustomerPhone: "9123456789",
		Items: []SaleItemInput{
			{ProductID: plenty.ID, Quantity: 3, UnitPrice: 5.00, TotalPrice: 15.00},
			{ProductID: scarce.ID, Quantity: 2, UnitPrice: 20.00, TotalPrice: 40.00},
		},
		Subtotal:      55.00,
		TotalAmount:   55.00,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("expected an insufficient stock error")
	}
	if !apperror.IsStockConflict(err) {
		t.Fatalf("expected a stock conflict, got %v", err)
	}

	// The earlier line's decrement must have rolled back too.
	var stored entity.Product
	if err := db.First(&stored, "id = ?", plenty.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 50 {
		t.Errorf("expected stock 50 after rollback, got %d", stored.StockQuantity)
	}

	if n := countRows(t, db, &entity.Sale{}); n != 0 {
		t.Errorf("expected no sale rows, got %d", n)
	}
	if n := countRows(t, db, &entity.SaleItem{}); n != 0 {
		t.Errorf("expected no sale item rows, got %d", n)
	}
	// The customer created for this checkout must not survive either.
	if n := countRows(t, db, &entity.Customer{}); n != 0 {
		t.Errorf("expected no customer rows after rollback, got %d", n)
	}
}

func TestCreateSaleLastUnitGoesToOneBuyer(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)
	product := createTestProduct(t, db, "Limited Edition Case", 3000, 1)

	buy := func(phone string) error {
		_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
			UserID:        user.ID,
			CustomerPhone: phone,
			Items: []SaleItemInput{
				{ProductID: product.ID, Quantity: 1, UnitPrice: 30.00, TotalPrice: 30.00},
			},
			Subtotal:      30.00,
			TotalAmount:   30.00,
			PaymentMethod: enum.PaymentMethodCard,
		})
		return err
	}

	if err := buy("111"); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	err := buy("222")
	if err == nil {
		t.Fatal("expected the second checkout to fail")
	}
	if !apperror.IsStockConflict(err) {
		t.Fatalf("expected a stock conflict, got %v", err)
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 0 {
		t.Errorf("expected stock 0, got %d", stored.StockQuantity)
	}
	if n := countRows(t, db, &entity.Sale{}); n != 1 {
		t.Errorf("expected exactly 1 sale, got %d", n)
	}
}

func TestCreateSaleRejectsEmptyCart(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)

	_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID:        user.ID,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("expected an error for an empty cart")
	}
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)

	_, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID: user.ID,
		Items: []SaleItemInput{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 10.00, TotalPrice: 10.00},
		},
		TotalAmount:   10.00,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("expected an error for an unknown product")
	}
	if !apperror.IsNotFound(err) {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

func TestCreateSaleWalkInWithoutPhone(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)
	product := createTestProduct(t, db, "Screen Guard", 500, 10)

	sale, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID: user.ID,
		Items: []SaleItemInput{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 5.00, TotalPrice: 5.00},
		},
		Subtotal:      5.00,
		TotalAmount:   5.00,
		PaymentMethod: enum.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	if sale.CustomerID != nil {
		t.Error("expected an anonymous sale with no customer")
	}
	if n := countRows(t, db, &entity.Customer{}); n != 0 {
		t.Errorf("expected no customer rows, got %d", n)
	}
}

func TestVoidSaleRestoresStock(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{})
	user := createTestUser(t, db, entity.RoleStaff)
	product := createTestProduct(t, db, "Charger", 1500, 10)

	sale, err := svc.CreateSale(context.Background(), &CreateSaleInput{
		UserID: user.ID,
		Items: []SaleItemInput{
			{ProductID: product.ID, Quantity: 4, UnitPrice: 15.00, TotalPrice: 60.00},
		},
		Subtotal:      60.00,
		TotalAmount:   60.00,
		PaymentMethod: enum.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("CreateSale failed: %v", err)
	}

	voided, err := svc.VoidSale(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("VoidSale failed: %v", err)
	}
	if voided.Status != enum.SaleStatusVoid {
		t.Errorf("expected void status, got %v", voided.Status)
	}

	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 10 {
		t.Errorf("expected stock restored to 10, got %d", stored.StockQuantity)
	}

	// Voiding twice must be rejected, and the losing void must not
	// restock a second time.
	if _, err := svc.VoidSale(context.Background(), sale.ID); err == nil {
		t.Fatal("expected an error voiding an already-void sale")
	}
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 10 {
		t.Errorf("expected stock to stay at 10 after the rejected void, got %d", stored.StockQuantity)
	}
}

func TestCreateSaleDuplicateInvoiceNumber(t *testing.T) {
	db := newTestDB(t)
	svc := newSaleService(db, &stubRefs{invoices: []string{"INV-1", "INV-1"}})
	user := createTestUser(t, db, entity.RoleStaff)
	product := createTestProduct(t, db, "Tempered Glass", 300, 20)

	input := func() *CreateSaleInput {
		return &CreateSaleInput{
			UserID: user.ID,
			Items: []SaleItemInput{
				{ProductID: product.ID, Quantity: 1, UnitPrice: 3.00, TotalPrice: 3.00},
			},
			Subtotal:      3.00,
			TotalAmount:   3.00,
			PaymentMethod: enum.PaymentMethodCash,
		}
	}

	if _, err := svc.CreateSale(context.Background(), input()); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	_, err := svc.CreateSale(context.Background(), input())
	if err == nil {
		t.Fatal("expected a duplicate invoice number error")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("expected a 409 conflict, got %d", appErr.Code)
	}

	// The failed checkout must not consume stock.
	var stored entity.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	if stored.StockQuantity != 19 {
		t.Errorf("expected stock 19, got %d", stored.StockQuantity)
	}
}
