package spareparts

import (
	"time"

	"github.com/google/uuid"
)

// CreateSparePartInput carries the fields accepted when registering stock.
type CreateSparePartInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Code      string `json:"code" validate:"required,max=64"`
	Warehouse string `json:"warehouse" validate:"required,max=120"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

// UpdateSparePartInput carries the mutable descriptive fields. Quantity moves
// only through AdjustQuantity so stock math stays guarded.
type UpdateSparePartInput struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Code      *string `json:"code,omitempty" validate:"omitempty,max=64"`
	Warehouse *string `json:"warehouse,omitempty" validate:"omitempty,max=120"`
}

// AdjustQuantityInput moves quantity-on-hand by a signed delta.
type AdjustQuantityInput struct {
	Delta int `json:"delta" validate:"required"`
}

// SparePartFilters describe the knobs supported by the stock list.
type SparePartFilters struct {
	Warehouse string
	Query     string
}

// SparePartView is the read model returned by the stock endpoints.
type SparePartView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Warehouse string    `json:"warehouse"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SparePartList pairs a page of parts with the cursor for the next page.
type SparePartList struct {
	SpareParts []SparePartView `json:"spare_parts"`
	NextCursor string          `json:"next_cursor,omitempty"`
}
