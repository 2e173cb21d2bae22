package spareparts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

// Repository defines persistence operations for the spare part stock tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, part *models.SparePart) (*models.SparePart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.SparePart, error)
	FindByCode(ctx context.Context, code string) (*models.SparePart, error)
	List(ctx context.Context, params pagination.Params, filters SparePartFilters) (*SparePartList, error)
	ListBelow(ctx context.Context, threshold int) ([]models.SparePart, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int64, error)
	HasConsumptions(ctx context.Context, id uuid.UUID) (bool, error)
}
