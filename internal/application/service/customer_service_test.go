package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	infraRepo "github.com/fixpointhq/fixpoint-api/internal/infrastructure/repository"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
	"gorm.io/gorm"
)

func TestResolveByPhoneFindOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(infraRepo.NewCustomerRepository(db))

	created, err := svc.ResolveByPhone(context.Background(), "9812345678", "Kiran")
	if err != nil {
		t.Fatalf("first ResolveByPhone failed: %v", err)
	}
	if created.Name != "Kiran" {
		t.Errorf("expected name Kiran, got %q", created.Name)
	}

	found, err := svc.ResolveByPhone(context.Background(), "9812345678", "Someone Else")
	if err != nil {
		t.Fatalf("second ResolveByPhone failed: %v", err)
	}
	if found.ID != created.ID {
		t.Error("expected the same customer for the same phone")
	}
	if found.Name != "Kiran" {
		t.Errorf("expected original name preserved, got %q", found.Name)
	}
	if n := countRows(t, db, &entity.Customer{}); n != 1 {
		t.Errorf("expected 1 customer row, got %d", n)
	}
}

func TestResolveByPhoneDefaultsWalkInName(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(infraRepo.NewCustomerRepository(db))

	customer, err := svc.ResolveByPhone(context.Background(), "9898989898", "")
	if err != nil {
		t.Fatalf("ResolveByPhone failed: %v", err)
	}
	if customer.Name != WalkInCustomerName {
		t.Errorf("expected walk-in name, got %q", customer.Name)
	}
}

func TestResolveByPhoneRequiresPhone(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(infraRepo.NewCustomerRepository(db))

	if _, err := svc.ResolveByPhone(context.Background(), "", "Anyone"); err == nil {
		t.Fatal("expected an error for an empty phone")
	}
}

func TestResolveByPhoneConflictKeepsDuplicateCause(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(infraRepo.NewCustomerRepository(db))

	// A soft-deleted row is invisible to the lookup but still holds the
	// phone's unique slot, the same failure shape a concurrent create
	// produces between the lookup and the insert.
	existing := &entity.Customer{Name: "Former", Phone: "9822222222"}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to create customer: %v", err)
	}
	if err := db.Delete(existing).Error; err != nil {
		t.Fatalf("failed to soft-delete customer: %v", err)
	}

	_, err := svc.ResolveByPhone(context.Background(), "9822222222", "Newcomer")
	if err == nil {
		t.Fatal("expected a conflict for an occupied phone")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 409 {
		t.Errorf("expected a 409 conflict, got %d", appErr.Code)
	}
	// Callers that retry on duplicate keys must still see the cause.
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Error("expected the conflict to match gorm.ErrDuplicatedKey")
	}
}

func TestUpdateCustomerPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(infraRepo.NewCustomerRepository(db))

	customer, err := svc.ResolveByPhone(context.Background(), "9811111111", "Divya")
	if err != nil {
		t.Fatalf("ResolveByPhone failed: %v", err)
	}

	email := "divya@example.com"
	updated, err := svc.UpdateCustomer(context.Background(), &UpdateCustomerInput{
		ID:    customer.ID,
		Email: &email,
	})
	if err != nil {
		t.Fatalf("UpdateCustomer failed: %v", err)
	}
	if updated.Email == nil || *updated.Email != email {
		t.Error("expected email to be updated")
	}
	if updated.Name != "Divya" {
		t.Errorf("expected name untouched, got %q", updated.Name)
	}
	if updated.Phone != "9811111111" {
		t.Errorf("expected phone untouched, got %q", updated.Phone)
	}
}
