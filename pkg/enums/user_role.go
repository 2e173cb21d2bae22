package enums

import "fmt"

// UserRole scopes what a back-office user can see and change.
type UserRole string

const (
	UserRoleAdmin          UserRole = "admin"
	UserRoleEngineer       UserRole = "engineer"
	UserRoleComplaintsOnly UserRole = "complaints_only"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleEngineer,
	UserRoleComplaintsOnly,
}

// IsValid reports whether the value matches the canonical user role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts the raw string to UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
