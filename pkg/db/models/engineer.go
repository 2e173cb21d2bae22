package models

import (
	"time"

	"github.com/google/uuid"
)

// Engineer is a field technician who can be assigned to complaints.
type Engineer struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Specialization string    `gorm:"column:specialization;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
