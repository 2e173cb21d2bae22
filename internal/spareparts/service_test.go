package spareparts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/dmorenov/servicedesk-backend/pkg/db"
	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

type staticThreshold int

func (s staticThreshold) LowStockThreshold(context.Context) (int, error) {
	return int(s), nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:spareparts_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.SparePart{}, &models.SparePartConsumption{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newService(t *testing.T, conn *gorm.DB, threshold int) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), pkgdb.FromGorm(conn), staticThreshold(threshold), 5)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedPart(t *testing.T, conn *gorm.DB, code string, qty int) models.SparePart {
	t.Helper()
	part := models.SparePart{ID: uuid.New(), Name: "Thermostat", Code: code, Warehouse: "main", Quantity: qty}
	if err := conn.Create(&part).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}
	return part
}

func TestCreateSparePart_duplicateCode(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateSparePartInput{Name: "Thermostat", Code: "TH-01", Warehouse: "main", Quantity: 3})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = svc.Create(ctx, CreateSparePartInput{Name: "Thermostat v2", Code: "TH-01", Warehouse: "main", Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAdjustQuantity(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)
	ctx := context.Background()
	part := seedPart(t, conn, "TH-02", 4)

	view, err := svc.AdjustQuantity(ctx, part.ID, AdjustQuantityInput{Delta: 6})
	if err != nil {
		t.Fatalf("increase: %v", err)
	}
	if view.Quantity != 10 {
		t.Fatalf("expected 10, got %d", view.Quantity)
	}

	view, err = svc.AdjustQuantity(ctx, part.ID, AdjustQuantityInput{Delta: -10})
	if err != nil {
		t.Fatalf("decrease: %v", err)
	}
	if view.Quantity != 0 {
		t.Fatalf("expected 0, got %d", view.Quantity)
	}

	_, err = svc.AdjustQuantity(ctx, part.ID, AdjustQuantityInput{Delta: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestAdjustQuantity_missingPart(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)

	_, err := svc.AdjustQuantity(context.Background(), uuid.New(), AdjustQuantityInput{Delta: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListLowStock_usesConfiguredThreshold(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 3)
	ctx := context.Background()

	low := seedPart(t, conn, "TH-03", 1)
	seedPart(t, conn, "TH-04", 8)

	parts, err := svc.ListLowStock(ctx)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(parts) != 1 || parts[0].ID != low.ID {
		t.Fatalf("unexpected result: %+v", parts)
	}
}

func TestDeleteSparePart_blockedByConsumptions(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)
	ctx := context.Background()
	part := seedPart(t, conn, "TH-05", 2)

	row := models.SparePartConsumption{ID: uuid.New(), ComplaintID: uuid.New(), SparePartID: part.ID, QuantityUsed: 1}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("seed consumption: %v", err)
	}

	err := svc.Delete(ctx, part.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteSparePart(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)
	ctx := context.Background()
	part := seedPart(t, conn, "TH-06", 2)

	if err := svc.Delete(ctx, part.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, part.ID); err == nil {
		t.Fatal("expected not found")
	}
}

func TestListSpareParts_pagination(t *testing.T) {
	conn := newTestDB(t)
	svc := newService(t, conn, 5)
	ctx := context.Background()

	seedPart(t, conn, "TH-07", 2)
	seedPart(t, conn, "TH-08", 9)

	page, err := svc.List(ctx, pagination.Params{Limit: 1}, SparePartFilters{})
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if len(page.SpareParts) != 1 || page.NextCursor == "" {
		t.Fatalf("unexpected first page: %+v", page)
	}

	rest, err := svc.List(ctx, pagination.Params{Limit: 1, Cursor: page.NextCursor}, SparePartFilters{})
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(rest.SpareParts) != 1 || rest.SpareParts[0].ID == page.SpareParts[0].ID {
		t.Fatalf("unexpected second page: %+v", rest)
	}
}
