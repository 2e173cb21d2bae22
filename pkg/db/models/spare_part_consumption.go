package models

import (
	"time"

	"github.com/google/uuid"
)

// SparePartConsumption is the audit row linking a closed repair to the stock
// it consumed. Rows are deleted together with their complaint, never orphaned.
type SparePartConsumption struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ComplaintID  uuid.UUID `gorm:"column:complaint_id;type:uuid;not null;index"`
	SparePartID  uuid.UUID `gorm:"column:spare_part_id;type:uuid;not null;index"`
	QuantityUsed int       `gorm:"column:quantity_used;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
