package models

import (
	"time"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// SystemSetting stores one configuration value as text plus a type tag.
// Parsing into the tagged variant happens in pkg/types at the store boundary.
type SystemSetting struct {
	Key       string            `gorm:"column:setting_key;primaryKey"`
	Value     string            `gorm:"column:setting_value;not null"`
	Type      enums.SettingType `gorm:"column:setting_type;not null;default:string"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
