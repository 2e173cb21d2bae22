package spareparts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

// Decrementer performs guarded stock decrements inside an existing
// transaction.
type Decrementer interface {
	Decrement(ctx context.Context, tx *gorm.DB, sparePartID uuid.UUID, qty int) error
}

type decrementerImpl struct{}

// NewDecrementer exposes the default guarded stock decrement used when a
// repair consumes parts.
func NewDecrementer() Decrementer {
	return decrementerImpl{}
}

// Decrement takes qty units off the part inside the caller's transaction. The
// update is guarded so the row is untouched when quantity-on-hand is short;
// a failed guard surfaces as INSUFFICIENT_STOCK so the whole transaction
// rolls back.
func (decrementerImpl) Decrement(ctx context.Context, tx *gorm.DB, sparePartID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for stock decrement")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE spare_parts
		SET quantity = quantity - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity >= ?
	`, qty, sparePartID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var part models.SparePart
	err := tx.WithContext(ctx).Where("id = ?", sparePartID).First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "spare part not found").
				WithDetails(map[string]any{"spare_part_id": sparePartID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load spare part")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for repair").
		WithDetails(map[string]any{
			"spare_part_id": sparePartID,
			"available":     part.Quantity,
			"requested":     qty,
		})
}
