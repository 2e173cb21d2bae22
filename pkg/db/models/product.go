package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is the appliance a complaint was filed against. Serial is the
// natural key used by the look-up-or-create path on complaint intake.
type Product struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Brand     string    `gorm:"column:brand;not null"`
	Type      string    `gorm:"column:type;not null"`
	Model     string    `gorm:"column:model;not null"`
	Serial    string    `gorm:"column:serial;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
