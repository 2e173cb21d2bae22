package enums

import "fmt"

// ComplaintKind classifies the contractual coverage a complaint falls under.
type ComplaintKind string

const (
	ComplaintKindWarranty                 ComplaintKind = "warranty"
	ComplaintKindComprehensiveContract    ComplaintKind = "comprehensive_contract"
	ComplaintKindNonComprehensiveContract ComplaintKind = "non_comprehensive_contract"
	ComplaintKindOutOfWarranty            ComplaintKind = "out_of_warranty"
)

var validComplaintKinds = []ComplaintKind{
	ComplaintKindWarranty,
	ComplaintKindComprehensiveContract,
	ComplaintKindNonComprehensiveContract,
	ComplaintKindOutOfWarranty,
}

// IsValid reports whether the value matches the canonical complaint kind enum.
func (k ComplaintKind) IsValid() bool {
	for _, candidate := range validComplaintKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseComplaintKind converts the raw string to ComplaintKind.
func ParseComplaintKind(value string) (ComplaintKind, error) {
	for _, candidate := range validComplaintKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint kind %q", value)
}
