package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// SettingValue is the tagged variant behind a system setting. The store keeps
// every value as text plus a type tag; parsing happens here, at the boundary,
// so untyped strings never flow through the services.
type SettingValue struct {
	Type    enums.SettingType
	String  string
	Number  float64
	Boolean bool
}

// ParseSettingValue decodes a stored (value, type tag) pair.
func ParseSettingValue(raw string, tag enums.SettingType) (SettingValue, error) {
	switch tag {
	case enums.SettingTypeString:
		return SettingValue{Type: tag, String: raw}, nil
	case enums.SettingTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return SettingValue{}, fmt.Errorf("setting value %q is not numeric: %w", raw, err)
		}
		return SettingValue{Type: tag, Number: n}, nil
	case enums.SettingTypeBoolean:
		return SettingValue{Type: tag, Boolean: raw == "true"}, nil
	default:
		return SettingValue{}, fmt.Errorf("unknown setting type %q", tag)
	}
}

// SettingValueOf wraps a Go value into the matching variant.
func SettingValueOf(value any) (SettingValue, error) {
	switch v := value.(type) {
	case string:
		return SettingValue{Type: enums.SettingTypeString, String: v}, nil
	case bool:
		return SettingValue{Type: enums.SettingTypeBoolean, Boolean: v}, nil
	case float64:
		return SettingValue{Type: enums.SettingTypeNumber, Number: v}, nil
	case int:
		return SettingValue{Type: enums.SettingTypeNumber, Number: float64(v)}, nil
	default:
		return SettingValue{}, fmt.Errorf("unsupported setting value type %T", value)
	}
}

// Serialize returns the text form written to the store.
func (v SettingValue) Serialize() string {
	switch v.Type {
	case enums.SettingTypeNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case enums.SettingTypeBoolean:
		return strconv.FormatBool(v.Boolean)
	default:
		return v.String
	}
}

// Interface returns the dynamically typed value for JSON responses.
func (v SettingValue) Interface() any {
	switch v.Type {
	case enums.SettingTypeNumber:
		return v.Number
	case enums.SettingTypeBoolean:
		return v.Boolean
	default:
		return v.String
	}
}

// MarshalJSON emits the underlying value, not the variant wrapper.
func (v SettingValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
