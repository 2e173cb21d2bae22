package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// CustomerInput carries the customer fields accepted on complaint intake.
// Phone is the natural key: an existing customer with the same phone is
// reused and its name/branch refreshed.
type CustomerInput struct {
	Name   string `json:"name" validate:"required,max=200"`
	Branch string `json:"branch" validate:"required,max=200"`
	Phone  string `json:"phone" validate:"required,max=32"`
}

// ProductInput carries the appliance fields accepted on complaint intake.
// Serial is the natural key.
type ProductInput struct {
	Brand  string `json:"brand" validate:"required,max=120"`
	Type   string `json:"type" validate:"required,max=120"`
	Model  string `json:"model" validate:"required,max=120"`
	Serial string `json:"serial" validate:"required,max=120"`
}

// CreateComplaintInput is the intake payload. The engineer assignment is
// optional at creation time.
type CreateComplaintInput struct {
	Customer    CustomerInput `json:"customer" validate:"required"`
	Product     ProductInput  `json:"product" validate:"required"`
	Description string        `json:"description" validate:"required,max=4000"`
	Kind        string        `json:"kind" validate:"required"`
	EngineerID  *uuid.UUID    `json:"engineer_id,omitempty"`
}

// RepairPartInput names one spare part consumed during a repair. A zero
// quantity means the caller did not specify one and the default applies.
type RepairPartInput struct {
	SparePartID uuid.UUID `json:"spare_part_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=0,lte=1000"`
}

// CompleteRepairInput closes a complaint with its repair outcome.
type CompleteRepairInput struct {
	RepairType string            `json:"repair_type" validate:"required"`
	Notes      *string           `json:"notes,omitempty" validate:"omitempty,max=4000"`
	SpareParts []RepairPartInput `json:"spare_parts,omitempty" validate:"omitempty,dive"`
}

// ComplaintFilters describe the knobs supported by the complaint list.
type ComplaintFilters struct {
	Status     *enums.ComplaintStatus
	Kind       *enums.ComplaintKind
	EngineerID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Query      string
}

// ConsumptionSummary is one audit line on a complaint detail.
type ConsumptionSummary struct {
	SparePartID  uuid.UUID `json:"spare_part_id"`
	PartName     string    `json:"part_name,omitempty"`
	PartCode     string    `json:"part_code,omitempty"`
	QuantityUsed int       `json:"quantity_used"`
}

// ComplaintSummary is the row shape returned by the paginated list.
type ComplaintSummary struct {
	ID            uuid.UUID             `json:"id"`
	Status        enums.ComplaintStatus `json:"status"`
	Kind          enums.ComplaintKind   `json:"kind"`
	Description   string                `json:"description"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	ProductBrand  string                `json:"product_brand"`
	ProductModel  string                `json:"product_model"`
	ProductSerial string                `json:"product_serial"`
	EngineerID    *uuid.UUID            `json:"engineer_id,omitempty"`
	EngineerName  *string               `json:"engineer_name,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// ComplaintList pairs a page of summaries with the cursor for the next page.
type ComplaintList struct {
	Complaints []ComplaintSummary `json:"complaints"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// ComplaintDetail is the full read model for a single complaint.
type ComplaintDetail struct {
	ID          uuid.UUID             `json:"id"`
	Status      enums.ComplaintStatus `json:"status"`
	Kind        enums.ComplaintKind   `json:"kind"`
	Description string                `json:"description"`
	RepairType  *enums.RepairType     `json:"repair_type,omitempty"`
	RepairNotes *string               `json:"repair_notes,omitempty"`
	Customer    CustomerInput         `json:"customer"`
	Product     ProductInput          `json:"product"`
	EngineerID  *uuid.UUID            `json:"engineer_id,omitempty"`
	Parts       []ConsumptionSummary  `json:"parts,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
