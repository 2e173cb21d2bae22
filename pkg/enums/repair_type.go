package enums

import "fmt"

// RepairType states whether a completed repair consumed warehouse stock.
type RepairType string

const (
	RepairTypeWithSpareParts    RepairType = "with_spare_parts"
	RepairTypeWithoutSpareParts RepairType = "without_spare_parts"
)

var validRepairTypes = []RepairType{
	RepairTypeWithSpareParts,
	RepairTypeWithoutSpareParts,
}

// IsValid reports whether the value matches the canonical repair type enum.
func (r RepairType) IsValid() bool {
	for _, candidate := range validRepairTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRepairType converts the raw string to RepairType.
func ParseRepairType(value string) (RepairType, error) {
	for _, candidate := range validRepairTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair type %q", value)
}
