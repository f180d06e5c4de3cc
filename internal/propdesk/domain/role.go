package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the closed set of identity categories. Each identity has exactly
// one and it never changes after creation.
type Role string

const (
	RoleAdmin           Role = "admin"
	RolePropertyManager Role = "property_manager"
	RoleLandlord        Role = "landlord"
	RoleTenant          Role = "tenant"
	RoleVendor          Role = "vendor"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RolePropertyManager, RoleLandlord, RoleTenant, RoleVendor}
}

// ParseRole maps a role name to a Role, rejecting anything outside the set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePropertyManager, RoleLandlord, RoleTenant, RoleVendor:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
