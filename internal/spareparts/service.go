package spareparts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db"
	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ThresholdSource reports the configured low stock threshold. Implemented by
// the settings service; the spare parts service falls back to a static value
// when the source is unavailable.
type ThresholdSource interface {
	LowStockThreshold(ctx context.Context) (int, error)
}

// Service defines spare part stock operations.
type Service interface {
	Create(ctx context.Context, input CreateSparePartInput) (*SparePartView, error)
	Get(ctx context.Context, id uuid.UUID) (*SparePartView, error)
	List(ctx context.Context, params pagination.Params, filters SparePartFilters) (*SparePartList, error)
	ListLowStock(ctx context.Context) ([]SparePartView, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateSparePartInput) (*SparePartView, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, input AdjustQuantityInput) (*SparePartView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo              Repository
	tx                txRunner
	thresholds        ThresholdSource
	fallbackThreshold int
}

// NewService builds a spare parts service with the required dependencies.
func NewService(repo Repository, tx txRunner, thresholds ThresholdSource, fallbackThreshold int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("spare parts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if fallbackThreshold < 0 {
		return nil, fmt.Errorf("fallback threshold cannot be negative")
	}
	return &service{
		repo:              repo,
		tx:                tx,
		thresholds:        thresholds,
		fallbackThreshold: fallbackThreshold,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateSparePartInput) (*SparePartView, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock code required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	part := &models.SparePart{
		Name:      strings.TrimSpace(input.Name),
		Code:      code,
		Warehouse: strings.TrimSpace(input.Warehouse),
		Quantity:  input.Quantity,
	}
	created, err := s.repo.Create(ctx, part)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "stock code already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create spare part")
	}
	view := toView(*created)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SparePartView, error) {
	part, err := s.loadPart(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	view := toView(*part)
	return &view, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters SparePartFilters) (*SparePartList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list spare parts")
	}
	return list, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]SparePartView, error) {
	threshold := s.fallbackThreshold
	if s.thresholds != nil {
		if configured, err := s.thresholds.LowStockThreshold(ctx); err == nil && configured > 0 {
			threshold = configured
		}
	}
	parts, err := s.repo.ListBelow(ctx, threshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	views := make([]SparePartView, 0, len(parts))
	for _, part := range parts {
		views = append(views, toView(part))
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateSparePartInput) (*SparePartView, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock code cannot be empty")
		}
		updates["code"] = code
	}
	if input.Warehouse != nil {
		updates["warehouse"] = strings.TrimSpace(*input.Warehouse)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.loadPart(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, updates); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "stock code already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update spare part")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) AdjustQuantity(ctx context.Context, id uuid.UUID, input AdjustQuantityInput) (*SparePartView, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		rows, err := repo.AdjustQuantity(ctx, id, input.Delta)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust quantity")
		}
		if rows > 0 {
			return nil
		}
		part, err := s.loadPart(ctx, repo, id)
		if err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "adjustment would drive stock negative").
			WithDetails(map[string]any{
				"spare_part_id": id,
				"available":     part.Quantity,
				"requested":     -input.Delta,
			})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		used, err := repo.HasConsumptions(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check consumptions")
		}
		if used {
			return pkgerrors.New(pkgerrors.CodeConflict, "spare part has recorded consumptions")
		}
		rows, err := repo.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete spare part")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "spare part not found")
		}
		return nil
	})
}

func (s *service) loadPart(ctx context.Context, repo Repository, id uuid.UUID) (*models.SparePart, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spare part id required")
	}
	part, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "spare part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load spare part")
	}
	return part, nil
}
