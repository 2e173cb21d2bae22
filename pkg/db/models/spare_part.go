package models

import (
	"time"

	"github.com/google/uuid"
)

// SparePart tracks quantity-on-hand per stock code. Quantity never goes
// negative; every decrement runs through a guarded update inside a
// transaction.
type SparePart struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Code      string    `gorm:"column:code;not null;uniqueIndex"`
	Warehouse string    `gorm:"column:warehouse;not null"`
	Quantity  int       `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
