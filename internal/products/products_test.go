package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
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
	return svc
}

func TestProductCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductInput{Brand: "Coldline", Type: "fridge", Model: "CL-200", Serial: "SN-2001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	model := "CL-210"
	updated, err := svc.Update(ctx, created.ID, UpdateProductInput{Model: &model})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Model != model {
		t.Fatalf("expected %q, got %q", model, updated.Model)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 product, got %d", len(list))
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestProductCreate_duplicateSerial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateProductInput{Brand: "Coldline", Type: "fridge", Model: "CL-200", Serial: "SN-2002"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateProductInput{Brand: "Fresca", Type: "fridge", Model: "F-1", Serial: "SN-2002"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
