package types

import (
	"testing"

	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

func TestParseSettingValue(t *testing.T) {
	t.Parallel()

	v, err := ParseSettingValue("5", enums.SettingTypeNumber)
	if err != nil {
		t.Fatalf("parse number: %v", err)
	}
	if v.Number != 5 {
		t.Fatalf("expected 5, got %v", v.Number)
	}

	v, err = ParseSettingValue("true", enums.SettingTypeBoolean)
	if err != nil {
		t.Fatalf("parse bool: %v", err)
	}
	if !v.Boolean {
		t.Fatal("expected true")
	}

	v, err = ParseSettingValue("weekly", enums.SettingTypeString)
	if err != nil {
		t.Fatalf("parse string: %v", err)
	}
	if v.String != "weekly" {
		t.Fatalf("unexpected string value %q", v.String)
	}

	if _, err := ParseSettingValue("abc", enums.SettingTypeNumber); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestSettingValueRoundTrip(t *testing.T) {
	t.Parallel()

	for _, value := range []any{"dark", 7.5, true, 12} {
		wrapped, err := SettingValueOf(value)
		if err != nil {
			t.Fatalf("wrap %v: %v", value, err)
		}
		parsed, err := ParseSettingValue(wrapped.Serialize(), wrapped.Type)
		if err != nil {
			t.Fatalf("reparse %v: %v", value, err)
		}
		if parsed.Serialize() != wrapped.Serialize() {
			t.Fatalf("round trip mismatch for %v: %q vs %q", value, parsed.Serialize(), wrapped.Serialize())
		}
	}
}

func TestSettingValueOfRejectsUnknownTypes(t *testing.T) {
	t.Parallel()

	if _, err := SettingValueOf([]string{"nope"}); err == nil {
		t.Fatal("expected error for slice value")
	}
}
