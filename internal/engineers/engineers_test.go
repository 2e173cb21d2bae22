package engineers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/dmorenov/servicedesk-backend/pkg/db"
	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

func setupEngineersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:engineers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Engineer{},
		&models.Complaint{},
	))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), pkgdb.FromGorm(conn))
	require.NoError(t, err)
	return svc
}

func seedAssignedComplaint(t *testing.T, conn *gorm.DB, engineerID uuid.UUID, status enums.ComplaintStatus) models.Complaint {
	t.Helper()
	customer := models.Customer{ID: uuid.New(), Name: "Dana", Branch: "North", Phone: "555-" + uuid.NewString()[:8]}
	require.NoError(t, conn.Create(&customer).Error)
	product := models.Product{ID: uuid.New(), Brand: "Coldline", Type: "fridge", Model: "CL-200", Serial: uuid.NewString()}
	require.NoError(t, conn.Create(&product).Error)
	complaint := models.Complaint{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		ProductID:   product.ID,
		EngineerID:  &engineerID,
		Description: "does not start",
		Kind:        enums.ComplaintKindWarranty,
		Status:      status,
	}
	require.NoError(t, conn.Create(&complaint).Error)
	return complaint
}

func TestCreateAndGetEngineer(t *testing.T) {
	conn := setupEngineersTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.Create(context.Background(), CreateEngineerInput{Name: "Priya", Specialization: "refrigeration"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya", got.Name)
	assert.EqualValues(t, 0, got.OpenComplaints)
}

func TestGetEngineer_countsOpenComplaints(t *testing.T) {
	conn := setupEngineersTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.Create(context.Background(), CreateEngineerInput{Name: "Priya", Specialization: "refrigeration"})
	require.NoError(t, err)

	seedAssignedComplaint(t, conn, created.ID, enums.ComplaintStatusOpen)
	seedAssignedComplaint(t, conn, created.ID, enums.ComplaintStatusUnderInvestigation)
	seedAssignedComplaint(t, conn, created.ID, enums.ComplaintStatusClosed)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.OpenComplaints)
}

func TestDeleteEngineer_unassignsComplaints(t *testing.T) {
	conn := setupEngineersTestDB(t)
	svc := newTestService(t, conn)

	created, err := svc.Create(context.Background(), CreateEngineerInput{Name: "Priya", Specialization: "refrigeration"})
	require.NoError(t, err)
	complaint := seedAssignedComplaint(t, conn, created.ID, enums.ComplaintStatusUnderInvestigation)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	var engineers int64
	require.NoError(t, conn.Model(&models.Engineer{}).Count(&engineers).Error)
	assert.EqualValues(t, 0, engineers)

	var stored models.Complaint
	require.NoError(t, conn.First(&stored, "id = ?", complaint.ID).Error)
	assert.Nil(t, stored.EngineerID)
	assert.Equal(t, enums.ComplaintStatusUnderInvestigation, stored.Status)
}

func TestDeleteEngineer_missing(t *testing.T) {
	conn := setupEngineersTestDB(t)
	svc := newTestService(t, conn)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateEngineer_noFields(t *testing.T) {
	conn := setupEngineersTestDB(t)
	svc := newTestService(t, conn)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateEngineerInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
