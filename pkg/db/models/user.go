package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// User is a back-office account. There is no session machinery here; the
// record carries role and permission flags consumed by the presentation layer.
type User struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name               string         `gorm:"column:name;not null"`
	Email              *string        `gorm:"column:email"`
	Phone              *string        `gorm:"column:phone"`
	Role               enums.UserRole `gorm:"column:role;not null"`
	ViewAllWarehouses  bool           `gorm:"column:view_all_warehouses;not null;default:false"`
	ManageComplaints   bool           `gorm:"column:manage_complaints;not null;default:false"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
