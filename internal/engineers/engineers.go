package engineers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

// CreateEngineerInput carries the fields accepted when registering a
// technician.
type CreateEngineerInput struct {
	Name           string `json:"name" validate:"required,max=200"`
	Specialization string `json:"specialization" validate:"required,max=200"`
}

// UpdateEngineerInput carries the mutable engineer fields.
type UpdateEngineerInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=200"`
}

// EngineerView is the read model returned by the engineer endpoints.
type EngineerView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	OpenComplaints int64     `json:"open_complaints"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Repository defines persistence operations for engineers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, engineer *models.Engineer) (*models.Engineer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Engineer, error)
	ListAll(ctx context.Context) ([]models.Engineer, error)
	CountOpenComplaints(ctx context.Context, engineerID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UnassignComplaints(ctx context.Context, engineerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an engineers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, engineer *models.Engineer) (*models.Engineer, error) {
	if engineer.ID == uuid.Nil {
		engineer.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(engineer).Error; err != nil {
		return nil, err
	}
	return engineer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Engineer, error) {
	var engineer models.Engineer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&engineer).Error; err != nil {
		return nil, err
	}
	return &engineer, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Engineer, error) {
	var engineers []models.Engineer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&engineers).Error
	if err != nil {
		return nil, err
	}
	return engineers, nil
}

func (r *repository) CountOpenComplaints(ctx context.Context, engineerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("engineer_id = ? AND status <> ?", engineerID, enums.ComplaintStatusClosed).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Engineer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UnassignComplaints(ctx context.Context, engineerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("engineer_id = ?", engineerID).
		Update("engineer_id", nil).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Engineer{})
	return res.RowsAffected, res.Error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines engineer roster operations.
type Service interface {
	Create(ctx context.Context, input CreateEngineerInput) (*EngineerView, error)
	Get(ctx context.Context, id uuid.UUID) (*EngineerView, error)
	List(ctx context.Context) ([]EngineerView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEngineerInput) (*EngineerView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an engineers service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("engineers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateEngineerInput) (*EngineerView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engineer name required")
	}
	engineer := &models.Engineer{
		Name:           name,
		Specialization: strings.TrimSpace(input.Specialization),
	}
	created, err := s.repo.Create(ctx, engineer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create engineer")
	}
	view := toView(*created, 0)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*EngineerView, error) {
	engineer, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	open, err := s.repo.CountOpenComplaints(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open complaints")
	}
	view := toView(*engineer, open)
	return &view, nil
}

func (s *service) List(ctx context.Context) ([]EngineerView, error) {
	engineers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list engineers")
	}
	views := make([]EngineerView, 0, len(engineers))
	for _, engineer := range engineers {
		open, err := s.repo.CountOpenComplaints(ctx, engineer.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open complaints")
		}
		views = append(views, toView(engineer, open))
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEngineerInput) (*EngineerView, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "engineer name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Specialization != nil {
		updates["specialization"] = strings.TrimSpace(*input.Specialization)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update engineer")
	}
	return s.Get(ctx, id)
}

// Delete clears the engineer off every complaint referencing them, then
// removes the roster row. Complaint history keeps its status and repair
// record, just without an assignee.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "engineer id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UnassignComplaints(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unassign complaints")
		}
		rows, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete engineer")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "engineer not found")
		}
		return nil
	})
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Engineer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "engineer id required")
	}
	engineer, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "engineer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load engineer")
	}
	return engineer, nil
}

func toView(engineer models.Engineer, openComplaints int64) EngineerView {
	return EngineerView{
		ID:             engineer.ID,
		Name:           engineer.Name,
		Specialization: engineer.Specialization,
		OpenComplaints: openComplaints,
		CreatedAt:      engineer.CreatedAt,
		UpdatedAt:      engineer.UpdatedAt,
	}
}
