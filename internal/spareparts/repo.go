package spareparts

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a spare parts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, part *models.SparePart) (*models.SparePart, error) {
	if part.ID == uuid.Nil {
		part.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.SparePart, error) {
	var part models.SparePart
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters SparePartFilters) (*SparePartList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.SparePart{})
	if warehouse := strings.TrimSpace(filters.Warehouse); warehouse != "" {
		qb = qb.Where("warehouse = ?", warehouse)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ?)", pattern, pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var parts []models.SparePart
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&parts).Error
	if err != nil {
		return nil, err
	}

	resultRows := parts
	nextCursor := ""
	if len(parts) > pageSize {
		resultRows = parts[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}

	views := make([]SparePartView, 0, len(resultRows))
	for _, part := range resultRows {
		views = append(views, toView(part))
	}

	return &SparePartList{SpareParts: views, NextCursor: nextCursor}, nil
}

func (r *repository) ListBelow(ctx context.Context, threshold int) ([]models.SparePart, error) {
	var parts []models.SparePart
	err := r.db.WithContext(ctx).
		Where("quantity <= ?", threshold).
		Order("quantity ASC").Order("name ASC").
		Find(&parts).Error
	if err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SparePart{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SparePart{})
	return res.RowsAffected, res.Error
}

// AdjustQuantity applies a signed delta. Negative deltas carry a quantity
// guard so the row is untouched when stock would go below zero; the caller
// inspects the affected row count.
func (r *repository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	qb := r.db.WithContext(ctx)
	var res *gorm.DB
	if delta < 0 {
		res = qb.Exec(`
			UPDATE spare_parts
			SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND quantity >= ?
		`, delta, id, -delta)
	} else {
		res = qb.Exec(`
			UPDATE spare_parts
			SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, delta, id)
	}
	return res.RowsAffected, res.Error
}

func (r *repository) HasConsumptions(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SparePartConsumption{}).
		Where("spare_part_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func toView(part models.SparePart) SparePartView {
	return SparePartView{
		ID:        part.ID,
		Name:      part.Name,
		Code:      part.Code,
		Warehouse: part.Warehouse,
		Quantity:  part.Quantity,
		CreatedAt: part.CreatedAt,
		UpdatedAt: part.UpdatedAt,
	}
}
