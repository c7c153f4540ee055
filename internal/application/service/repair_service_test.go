package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fixpointhq/fixpoint-api/internal/domain/entity"
	"github.com/fixpointhq/fixpoint-api/internal/domain/enum"
	"github.com/fixpointhq/fixpoint-api/pkg/apperror"
)

func TestCreateRepairResolvesCustomerByPhone(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{})

	first, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerName:  "Meena",
		CustomerPhone: "9000000001",
		DeviceModel:   "Pixel 7",
	})
	if err != nil {
		t.Fatalf("first CreateRepair failed: %v", err)
	}
	if first.Status != enum.RepairStatusPending {
		t.Errorf("expected pending status, got %v", first.Status)
	}
	if !strings.HasPrefix(first.JobCardNumber, "JC-") {
		t.Errorf("expected a JC- job card number, got %q", first.JobCardNumber)
	}

	second, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerName:  "M. Iyer",
		CustomerPhone: "9000000001",
		DeviceModel:   "Pixel 7 Pro",
	})
	if err != nil {
		t.Fatalf("second CreateRepair failed: %v", err)
	}

	if first.CustomerID != second.CustomerID {
		t.Error("expected both repairs to share one customer")
	}
	if n := countRows(t, db, &entity.Customer{}); n != 1 {
		t.Errorf("expected 1 customer row, got %d", n)
	}
	// The original name wins; a later spelling does not overwrite it.
	if second.Customer.Name != "Meena" {
		t.Errorf("expected original customer name, got %q", second.Customer.Name)
	}
}

func TestCreateRepairRetriesJobCardCollision(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{jobCards: []string{"JC-TAKEN", "JC-TAKEN", "JC-FREE"}})

	existing := &entity.Customer{Name: "Existing", Phone: "9000000000"}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	if err := db.Create(&entity.Repair{
		JobCardNumber: "JC-TAKEN",
		CustomerID:    existing.ID,
		DeviceModel:   "Existing",
	}).Error; err != nil {
		t.Fatalf("failed to seed colliding repair: %v", err)
	}

	repair, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000002",
		DeviceModel:   "Galaxy S22",
	})
	if err != nil {
		t.Fatalf("CreateRepair failed despite retry budget: %v", err)
	}
	if repair.JobCardNumber != "JC-FREE" {
		t.Errorf("expected the retried job card number, got %q", repair.JobCardNumber)
	}
}

func TestCreateRepairExhaustsJobCardRetries(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{jobCards: []string{"JC-X", "JC-X", "JC-X", "JC-X"}})

	if _, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000003",
		DeviceModel:   "iPhone 12",
	}); err != nil {
		t.Fatalf("seed CreateRepair failed: %v", err)
	}

	_, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000004",
		DeviceModel:   "iPhone 12 Mini",
	})
	if err == nil {
		t.Fatal("expected retry exhaustion to fail")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("expected a 409 conflict, got %d", appErr.Code)
	}
	// The failed intake must not leave a second repair or customer behind.
	if n := countRows(t, db, &entity.Repair{}); n != 1 {
		t.Errorf("expected 1 repair row, got %d", n)
	}
}

func TestCreateRepairSurfacesCustomerConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{})

	// A soft-deleted customer keeps its phone's unique slot occupied
	// while staying invisible to the lookup, so every intake attempt
	// for that phone hits the duplicate key.
	existing := &entity.Customer{Name: "Former", Phone: "9000000008"}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	if err := db.Delete(existing).Error; err != nil {
		t.Fatalf("failed to soft-delete customer: %v", err)
	}

	_, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000008",
		DeviceModel:   "Redmi Note 11",
	})
	if err == nil {
		t.Fatal("expected the intake to fail")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("expected a 409 conflict, got %d", appErr.Code)
	}
	// The customer conflict is the reason, not a job card collision.
	if !strings.Contains(appErr.Message, "phone") {
		t.Errorf("expected the customer conflict to surface, got %q", appErr.Message)
	}
	if n := countRows(t, db, &entity.Repair{}); n != 0 {
		t.Errorf("expected no repair rows, got %d", n)
	}
}

func TestUpdateRepairStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{})

	repair, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000005",
		DeviceModel:   "OnePlus 9",
	})
	if err != nil {
		t.Fatalf("CreateRepair failed: %v", err)
	}

	// pending cannot jump straight to ready
	ready := enum.RepairStatusReady
	if _, err := svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, Status: &ready}); err == nil {
		t.Fatal("expected pending -> ready to be rejected")
	}

	inProgress := enum.RepairStatusInProgress
	updated, err := svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, Status: &inProgress})
	if err != nil {
		t.Fatalf("pending -> in_progress failed: %v", err)
	}
	if updated.Status != enum.RepairStatusInProgress {
		t.Errorf("expected in_progress, got %v", updated.Status)
	}

	if _, err = svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, Status: &ready}); err != nil {
		t.Fatalf("in_progress -> ready failed: %v", err)
	}

	delivered := enum.RepairStatusDelivered
	if _, err = svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, Status: &delivered}); err != nil {
		t.Fatalf("ready -> delivered failed: %v", err)
	}

	// delivered is terminal
	cancelled := enum.RepairStatusCancelled
	if _, err := svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, Status: &cancelled}); err == nil {
		t.Fatal("expected delivered -> cancelled to be rejected")
	}
}

func TestUpdateRepairZeroFinalCost(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{})

	repair, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000006",
		DeviceModel:   "Moto G",
	})
	if err != nil {
		t.Fatalf("CreateRepair failed: %v", err)
	}

	// A warranty job costs nothing; the explicit zero must be stored,
	// not treated as an absent field.
	zero := 0.0
	updated, err := svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, FinalCost: &zero})
	if err != nil {
		t.Fatalf("UpdateRepair failed: %v", err)
	}
	if updated.FinalCost == nil {
		t.Fatal("expected final cost to be set")
	}
	if *updated.FinalCost != 0 {
		t.Errorf("expected final cost 0, got %d", *updated.FinalCost)
	}
	// Untouched fields survive the partial update.
	if updated.DeviceModel != "Moto G" {
		t.Errorf("expected device model preserved, got %q", updated.DeviceModel)
	}
	if updated.Status != enum.RepairStatusPending {
		t.Errorf("expected status untouched, got %v", updated.Status)
	}
}

func TestUpdateRepairAssignTechnician(t *testing.T) {
	db := newTestDB(t)
	svc := newRepairService(db, &stubRefs{})
	technician := createTestUser(t, db, entity.RoleTechnician)

	repair, err := svc.CreateRepair(context.Background(), &CreateRepairInput{
		CustomerPhone: "9000000007",
		DeviceModel:   "iPad Air",
	})
	if err != nil {
		t.Fatalf("CreateRepair failed: %v", err)
	}

	updated, err := svc.UpdateRepair(context.Background(), &UpdateRepairInput{ID: repair.ID, TechnicianID: &technician.ID})
	if err != nil {
		t.Fatalf("UpdateRepair failed: %v", err)
	}
	if updated.TechnicianID == nil || *updated.TechnicianID != technician.ID {
		t.Error("expected the technician to be assigned")
	}
}
