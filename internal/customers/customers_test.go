package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:customers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Customer{}, &models.Product{}, &models.Complaint{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestCustomerCRUD(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCustomerInput{Name: "Dana", Branch: "North", Phone: "555-0201"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Dana Reeve"
	updated, err := svc.Update(ctx, created.ID, UpdateCustomerInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected %q, got %q", name, updated.Name)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}

func TestCustomerCreate_duplicatePhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateCustomerInput{Name: "Dana", Branch: "North", Phone: "555-0202"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateCustomerInput{Name: "Maya", Branch: "South", Phone: "555-0202"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCustomerDelete_blockedByComplaints(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCustomerInput{Name: "Dana", Branch: "North", Phone: "555-0203"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	product := models.Product{ID: uuid.New(), Brand: "Coldline", Type: "fridge", Model: "CL-200", Serial: "SN-3001"}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	complaint := models.Complaint{
		ID:          uuid.New(),
		CustomerID:  created.ID,
		ProductID:   product.ID,
		Description: "noise",
		Kind:        enums.ComplaintKindWarranty,
		Status:      enums.ComplaintStatusOpen,
	}
	if err := conn.Create(&complaint).Error; err != nil {
		t.Fatalf("seed complaint: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
