package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the person who filed a complaint. Phone doubles as the natural
// key used by the look-up-or-create path on complaint intake.
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Branch    string    `gorm:"column:branch;not null"`
	Phone     string    `gorm:"column:phone;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
