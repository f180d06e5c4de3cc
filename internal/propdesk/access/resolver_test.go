package access_test

import (
	"testing"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/access"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/stretchr/testify/require"
)

func identity(role domain.Role) *domain.Identity {
	return &domain.Identity{ID: "1", Email: "x@example.com", Role: role, IsActive: true}
}

func TestAdminHasEveryPermission(t *testing.T) {
	admin := identity(domain.RoleAdmin)

	for _, p := range domain.AllPermissions() {
		require.True(t, access.HasPermission(admin, p), p)
	}
	for _, nonsense := range []domain.Permission{"", "launch_missiles", "PROPERTIES"} {
		require.True(t, access.HasPermission(admin, nonsense), nonsense)
	}
}

func TestNilIdentityHasNothing(t *testing.T) {
	require.False(t, access.HasPermission(nil, domain.PermOwnLease))
	require.False(t, access.HasRole(nil, domain.RoleTenant))
}

func TestRoleTable(t *testing.T) {
	tests := []struct {
		role    domain.Role
		perm    domain.Permission
		granted bool
	}{
		{domain.RoleTenant, domain.PermProperties, false},
		{domain.RoleTenant, domain.PermOwnLease, true},
		{domain.RoleTenant, domain.PermOwnPayments, true},
		{domain.RoleTenant, domain.PermMaintenanceRequests, true},
		{domain.RoleTenant, domain.PermPayments, false},
		{domain.RoleLandlord, domain.PermPayments, true},
		{domain.RoleLandlord, domain.PermProperties, true},
		{domain.RoleLandlord, domain.PermSales, false},
		{domain.RoleLandlord, domain.PermMaintenance, false},
		{domain.RoleVendor, domain.PermProperties, false},
		{domain.RoleVendor, domain.PermAssignedMaintenance, true},
		{domain.RolePropertyManager, domain.PermSales, true},
		{domain.RolePropertyManager, domain.PermOwnLease, false},
		{domain.RolePropertyManager, "launch_missiles", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.perm), func(t *testing.T) {
			require.Equal(t, tt.granted, access.HasPermission(identity(tt.role), tt.perm))
		})
	}
}

func TestUnknownRoleHasNothing(t *testing.T) {
	for _, p := range domain.AllPermissions() {
		require.False(t, access.HasPermission(identity("owner"), p))
	}
}

func TestHasRole(t *testing.T) {
	require.True(t, access.HasRole(identity(domain.RoleTenant), domain.RoleTenant))
	require.False(t, access.HasRole(identity(domain.RoleTenant), domain.RoleLandlord))
	require.True(t, access.HasRole(identity(domain.RoleAdmin), domain.RoleLandlord))
	require.False(t, access.HasRole(identity(domain.RoleLandlord), domain.RoleAdmin))
}

func TestPermissions(t *testing.T) {
	require.Equal(t, []domain.Permission{
		domain.PermMaintenanceRequests,
		domain.PermOwnLease,
		domain.PermOwnPayments,
	}, access.Permissions(domain.RoleTenant))

	require.Len(t, access.Permissions(domain.RoleAdmin), len(domain.AllPermissions()))
	require.Empty(t, access.Permissions("owner"))

	// Returned slices must not alias the table.
	perms := access.Permissions(domain.RoleVendor)
	perms[0] = domain.PermProperties
	require.False(t, access.HasPermission(identity(domain.RoleVendor), domain.PermProperties))
}
