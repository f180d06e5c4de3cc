package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Permission names a capability a role may hold. The set is closed; names
// arriving from outside the process go through ParsePermission.
type Permission string

const (
	PermProperties          Permission = "properties"
	PermUnits               Permission = "units"
	PermTenants             Permission = "tenants"
	PermLeases              Permission = "leases"
	PermMaintenance         Permission = "maintenance"
	PermPayments            Permission = "payments"
	PermBuyers              Permission = "buyers"
	PermSales               Permission = "sales"
	PermReports             Permission = "reports"
	PermOwnLease            Permission = "own_lease"
	PermOwnPayments         Permission = "own_payments"
	PermMaintenanceRequests Permission = "maintenance_requests"
	PermAssignedMaintenance Permission = "assigned_maintenance"
)

var ErrUnknownPermission = errors.New("unknown permission")

var allPermissions = []Permission{
	PermProperties,
	PermUnits,
	PermTenants,
	PermLeases,
	PermMaintenance,
	PermPayments,
	PermBuyers,
	PermSales,
	PermReports,
	PermOwnLease,
	PermOwnPayments,
	PermMaintenanceRequests,
	PermAssignedMaintenance,
}

// AllPermissions returns a copy of every known permission.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// ParsePermission accepts both the canonical snake_case name and the
// kebab-case form used in view paths.
func ParsePermission(s string) (Permission, error) {
	p := Permission(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPermission, s)
	}
	return p, nil
}

func (p Permission) Valid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

func (p Permission) String() string { return string(p) }
