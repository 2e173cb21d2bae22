package products

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

// CreateProductInput carries the fields accepted when registering an
// appliance directly, outside the complaint intake path.
type CreateProductInput struct {
	Brand  string `json:"brand" validate:"required,max=120"`
	Type   string `json:"type" validate:"required,max=120"`
	Model  string `json:"model" validate:"required,max=120"`
	Serial string `json:"serial" validate:"required,max=120"`
}

// UpdateProductInput carries the mutable appliance fields.
type UpdateProductInput struct {
	Brand  *string `json:"brand,omitempty" validate:"omitempty,max=120"`
	Type   *string `json:"type,omitempty" validate:"omitempty,max=120"`
	Model  *string `json:"model,omitempty" validate:"omitempty,max=120"`
	Serial *string `json:"serial,omitempty" validate:"omitempty,max=120"`
}

// ProductView is the read model returned by the product endpoints.
type ProductView struct {
	ID        uuid.UUID `json:"id"`
	Brand     string    `json:"brand"`
	Type      string    `json:"type"`
	Model     string    `json:"model"`
	Serial    string    `json:"serial"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence operations for products.
type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	CountComplaints(ctx context.Context, productID uuid.UUID) (int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.DB(ctx).Order("brand ASC").Order("model ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CountComplaints(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Complaint{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// Service defines product registry operations.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*ProductView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context) ([]ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a products service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	serial := strings.TrimSpace(input.Serial)
	if serial == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product serial required")
	}
	product := &models.Product{
		Brand:  strings.TrimSpace(input.Brand),
		Type:   strings.TrimSpace(input.Type),
		Model:  strings.TrimSpace(input.Model),
		Serial: serial,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	view := toView(*created)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toView(*product)
	return &view, nil
}

func (s *service) List(ctx context.Context) ([]ProductView, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, toView(product))
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	updates := map[string]any{}
	if input.Brand != nil {
		updates["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Type != nil {
		updates["type"] = strings.TrimSpace(*input.Type)
	}
	if input.Model != nil {
		updates["model"] = strings.TrimSpace(*input.Model)
	}
	if input.Serial != nil {
		serial := strings.TrimSpace(*input.Serial)
		if serial == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product serial cannot be empty")
		}
		updates["serial"] = serial
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	complaints, err := s.repo.CountComplaints(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	if complaints > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has complaints on record")
	}
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func toView(product models.Product) ProductView {
	return ProductView{
		ID:        product.ID,
		Brand:     product.Brand,
		Type:      product.Type,
		Model:     product.Model,
		Serial:    product.Serial,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
