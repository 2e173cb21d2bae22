package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.UserPreference{}))
	return conn
}

func seedAdmin(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	email := "admin@servicedesk.local"
	user := models.User{
		ID:                uuid.New(),
		Name:              "Admin",
		Email:             &email,
		Role:              enums.UserRoleAdmin,
		ViewAllWarehouses: true,
		ManageComplaints:  true,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func TestCurrentUser_returnsAdmin(t *testing.T) {
	conn := setupUsersTestDB(t)
	admin := seedAdmin(t, conn)

	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	view, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, admin.ID, view.ID)
	assert.Equal(t, enums.UserRoleAdmin, view.Role)
	assert.True(t, view.Permissions.ManageComplaints)
}

func TestCurrentUser_notProvisioned(t *testing.T) {
	conn := setupUsersTestDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	_, err = svc.Current(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateUser(t *testing.T) {
	conn := setupUsersTestDB(t)
	admin := seedAdmin(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	name := "Dispatch Admin"
	phone := "555-0300"
	view, err := svc.Update(context.Background(), admin.ID, UpdateUserInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, name, view.Name)
	require.NotNil(t, view.Phone)
	assert.Equal(t, phone, *view.Phone)
}

func TestPreferences_upsertAndDecode(t *testing.T) {
	conn := setupUsersTestDB(t)
	admin := seedAdmin(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, svc.SetPreference(ctx, admin.ID, "theme", "dark"))
	require.NoError(t, svc.SetPreference(ctx, admin.ID, "page_size", 50))
	// overwrite wins
	require.NoError(t, svc.SetPreference(ctx, admin.ID, "theme", "light"))

	prefs, err := svc.Preferences(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "light", prefs["theme"])
	assert.Equal(t, float64(50), prefs["page_size"])
}

func TestPreferences_rawFallback(t *testing.T) {
	conn := setupUsersTestDB(t)
	admin := seedAdmin(t, conn)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	legacy := models.UserPreference{UserID: admin.ID, Key: "sidebar", Value: "collapsed"}
	require.NoError(t, conn.Create(&legacy).Error)

	prefs, err := svc.Preferences(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "collapsed", prefs["sidebar"])
}
