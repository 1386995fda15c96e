package enums

import "fmt"

// UserRole represents an employee's permission level inside an organization.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleManager   UserRole = "manager"
	UserRoleSeller    UserRole = "seller"
	UserRoleInventory UserRole = "inventory"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleManager,
	UserRoleSeller,
	UserRoleInventory,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
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

// CanManageInventory reports whether the role may mutate products and stock.
func (r UserRole) CanManageInventory() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleInventory:
		return true
	}
	return false
}

// CanSell reports whether the role may operate the POS checkout.
func (r UserRole) CanSell() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleSeller:
		return true
	}
	return false
}
