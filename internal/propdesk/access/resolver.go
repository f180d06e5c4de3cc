// Package access answers whether an identity holds a permission. The role
// table is static; admin is granted everything regardless of its contents.
package access

import (
	"slices"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
)

var table = map[domain.Role][]domain.Permission{
	domain.RolePropertyManager: {
		domain.PermProperties,
		domain.PermUnits,
		domain.PermTenants,
		domain.PermLeases,
		domain.PermMaintenance,
		domain.PermPayments,
		domain.PermBuyers,
		domain.PermSales,
		domain.PermReports,
	},
	domain.RoleLandlord: {
		domain.PermProperties,
		domain.PermUnits,
		domain.PermTenants,
		domain.PermLeases,
		domain.PermPayments,
		domain.PermReports,
	},
	domain.RoleTenant: {
		domain.PermOwnLease,
		domain.PermOwnPayments,
		domain.PermMaintenanceRequests,
	},
	domain.RoleVendor: {
		domain.PermAssignedMaintenance,
	},
}

// HasPermission reports whether identity holds p. A nil identity holds
// nothing.
func HasPermission(identity *domain.Identity, p domain.Permission) bool {
	if identity == nil {
		return false
	}
	if identity.Role == domain.RoleAdmin {
		return true
	}
	return slices.Contains(table[identity.Role], p)
}

// HasRole reports whether identity satisfies a role requirement. Admin
// satisfies every role requirement.
func HasRole(identity *domain.Identity, role domain.Role) bool {
	if identity == nil {
		return false
	}
	return identity.Role == role || identity.Role == domain.RoleAdmin
}

// Permissions returns the sorted permission list for role.
func Permissions(role domain.Role) []domain.Permission {
	var perms []domain.Permission
	if role == domain.RoleAdmin {
		perms = domain.AllPermissions()
	} else {
		perms = slices.Clone(table[role])
	}
	slices.Sort(perms)
	return perms
}
