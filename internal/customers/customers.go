package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/internal/repo"
	"github.com/dmorenov/servicedesk-backend/pkg/db"
	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

// CreateCustomerInput carries the fields accepted when registering a customer
// directly, outside the complaint intake path.
type CreateCustomerInput struct {
	Name   string `json:"name" validate:"required,max=200"`
	Branch string `json:"branch" validate:"required,max=200"`
	Phone  string `json:"phone" validate:"required,max=32"`
}

// UpdateCustomerInput carries the mutable customer fields.
type UpdateCustomerInput struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Branch *string `json:"branch,omitempty" validate:"omitempty,max=200"`
	Phone  *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// CustomerView is the read model returned by the customer endpoints.
type CustomerView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Branch     string    `json:"branch"`
	Phone      string    `json:"phone"`
	Complaints int64     `json:"complaints"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Repository defines persistence operations for customers.
type Repository interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListAll(ctx context.Context) ([]models.Customer, error)
	CountComplaints(ctx context.Context, customerID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.DB(ctx).Order("name ASC").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) CountComplaints(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Complaint{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Customer{})
	return res.RowsAffected, res.Error
}

// Service defines customer directory operations.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*CustomerView, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerView, error)
	List(ctx context.Context) ([]CustomerView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a customers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*CustomerView, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	customer := &models.Customer{
		Name:   strings.TrimSpace(input.Name),
		Branch: strings.TrimSpace(input.Branch),
		Phone:  phone,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	view := toView(*created, 0)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	complaints, err := s.repo.CountComplaints(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	view := toView(*customer, complaints)
	return &view, nil
}

func (s *service) List(ctx context.Context) ([]CustomerView, error) {
	customers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	views := make([]CustomerView, 0, len(customers))
	for _, customer := range customers {
		complaints, err := s.repo.CountComplaints(ctx, customer.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
		}
		views = append(views, toView(customer, complaints))
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Branch != nil {
		updates["branch"] = strings.TrimSpace(*input.Branch)
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone cannot be empty")
		}
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	complaints, err := s.repo.CountComplaints(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	if complaints > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has complaints on record")
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func toView(customer models.Customer, complaints int64) CustomerView {
	return CustomerView{
		ID:         customer.ID,
		Name:       customer.Name,
		Branch:     customer.Branch,
		Phone:      customer.Phone,
		Complaints: complaints,
		CreatedAt:  customer.CreatedAt,
		UpdatedAt:  customer.UpdatedAt,
	}
}
