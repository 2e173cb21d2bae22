package models

// ComplaintTypeEntry is a catalog row mapping a complaint kind key to its
// display label. The presentation layer reads these to build pickers.
type ComplaintTypeEntry struct {
	Key       string `gorm:"column:type_key;primaryKey"`
	Label     string `gorm:"column:type_label;not null"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0"`
}

// TableName keeps the legacy table name used by the previous system.
func (ComplaintTypeEntry) TableName() string {
	return "complaint_types"
}
