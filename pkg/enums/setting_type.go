package enums

import "fmt"

// SettingType is the type tag stored alongside a system setting value.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeNumber  SettingType = "number"
	SettingTypeBoolean SettingType = "boolean"
)

var validSettingTypes = []SettingType{
	SettingTypeString,
	SettingTypeNumber,
	SettingTypeBoolean,
}

// IsValid reports whether the value matches the canonical setting type enum.
func (s SettingType) IsValid() bool {
	for _, candidate := range validSettingTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSettingType converts the raw string to SettingType.
func ParseSettingType(value string) (SettingType, error) {
	for _, candidate := range validSettingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid setting type %q", value)
}
