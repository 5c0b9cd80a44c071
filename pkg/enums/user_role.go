package enums

import "fmt"

// UserRole distinguishes the two caller perspectives the API serves.
type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleVendor   UserRole = "VENDOR"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleVendor,
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
