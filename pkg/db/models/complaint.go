package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// Complaint is the central record. Status only ever moves along
// open -> under_investigation -> closed; repair fields are populated when the
// complaint closes.
type Complaint struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID             `gorm:"column:customer_id;type:uuid;not null"`
	ProductID   uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	EngineerID  *uuid.UUID            `gorm:"column:engineer_id;type:uuid"`
	Description string                `gorm:"column:description;not null"`
	Kind        enums.ComplaintKind   `gorm:"column:kind;not null"`
	Status      enums.ComplaintStatus `gorm:"column:status;not null;default:open"`
	RepairType  *enums.RepairType     `gorm:"column:repair_type"`
	RepairNotes *string               `gorm:"column:repair_notes"`

	Customer     *Customer             `gorm:"foreignKey:CustomerID"`
	Product      *Product              `gorm:"foreignKey:ProductID"`
	Engineer     *Engineer             `gorm:"foreignKey:EngineerID"`
	Consumptions []SparePartConsumption `gorm:"foreignKey:ComplaintID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
