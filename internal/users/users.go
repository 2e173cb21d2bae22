package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

// UserView is the account read model. Permissions are flat flags; there is no
// session layer in front of them.
type UserView struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Email       *string        `json:"email,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Role        enums.UserRole `json:"role"`
	Permissions Permissions    `json:"permissions"`
}

// Permissions are the flags carried on the user record.
type Permissions struct {
	ViewAllWarehouses bool `json:"view_all_warehouses"`
	ManageComplaints  bool `json:"manage_complaints"`
}

// UpdateUserInput carries the mutable profile fields.
type UpdateUserInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// Repository defines persistence operations for users and their preferences.
type Repository interface {
	FindAdmin(ctx context.Context) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserPreference, error)
	UpsertPreference(ctx context.Context, pref *models.UserPreference) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAdmin(ctx context.Context) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", enums.UserRoleAdmin).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserPreference, error) {
	var prefs []models.UserPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("preference_key ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (r *repository) UpsertPreference(ctx context.Context, pref *models.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "preference_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"preference_value", "updated_at"}),
		}).
		Create(pref).Error
}

// Service defines user profile and preference operations.
type Service interface {
	Current(ctx context.Context) (*UserView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserView, error)
	Preferences(ctx context.Context, userID uuid.UUID) (map[string]any, error)
	SetPreference(ctx context.Context, userID uuid.UUID, key string, value any) error
}

type service struct {
	repo Repository
}

// NewService builds a users service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// Current returns the admin account. The deployment has no login flow; the
// back office operates as the single admin user.
func (s *service) Current(ctx context.Context) (*UserView, error) {
	user, err := s.repo.FindAdmin(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin user not provisioned")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin user")
	}
	view := toView(*user)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*UserView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "user name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		updates["email"] = input.Email
	}
	if input.Phone != nil {
		updates["phone"] = input.Phone
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}
	view := toView(*user)
	return &view, nil
}

// Preferences returns the user's preference map. Values are stored as JSON;
// a value that fails to decode is passed through as its raw string, matching
// how legacy rows were written.
func (s *service) Preferences(ctx context.Context, userID uuid.UUID) (map[string]any, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.FindPreferences(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preferences")
	}
	prefs := make(map[string]any, len(rows))
	for _, row := range rows {
		var decoded any
		if err := json.Unmarshal([]byte(row.Value), &decoded); err != nil {
			prefs[row.Key] = row.Value
			continue
		}
		prefs[row.Key] = decoded
	}
	return prefs, nil
}

func (s *service) SetPreference(ctx context.Context, userID uuid.UUID, key string, value any) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "preference key required")
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "preference value not serializable")
	}
	pref := &models.UserPreference{
		UserID:    userID,
		Key:       key,
		Value:     string(encoded),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.UpsertPreference(ctx, pref); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save preference")
	}
	return nil
}

func toView(user models.User) UserView {
	return UserView{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Phone: user.Phone,
		Role:  user.Role,
		Permissions: Permissions{
			ViewAllWarehouses: user.ViewAllWarehouses,
			ManageComplaints:  user.ManageComplaints,
		},
	}
}
