package enums

import "fmt"

// ComplaintStatus tracks a complaint through its fixed lifecycle.
// The only legal moves are open -> under_investigation -> closed.
type ComplaintStatus string

const (
	ComplaintStatusOpen               ComplaintStatus = "open"
	ComplaintStatusUnderInvestigation ComplaintStatus = "under_investigation"
	ComplaintStatusClosed             ComplaintStatus = "closed"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusUnderInvestigation,
	ComplaintStatusClosed,
}

// IsValid reports whether the value matches the canonical complaint status enum.
func (s ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	switch s {
	case ComplaintStatusOpen:
		return next == ComplaintStatusUnderInvestigation
	case ComplaintStatusUnderInvestigation:
		return next == ComplaintStatusClosed
	default:
		return false
	}
}

// ParseComplaintStatus converts the raw string to ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}
