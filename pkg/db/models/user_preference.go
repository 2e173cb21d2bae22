package models

import (
	"time"

	"github.com/google/uuid"
)

// UserPreference stores one per-user preference as a JSON-encoded value.
type UserPreference struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Key       string    `gorm:"column:preference_key;primaryKey"`
	Value     string    `gorm:"column:preference_value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
