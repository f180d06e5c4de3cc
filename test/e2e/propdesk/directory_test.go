package propdesk_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
)

func TestBootstrapOnlyOnce(t *testing.T) {
	_, client := startApp(t, testConfig(t), false)
	ctx := t.Context()

	_, err := client.Bootstrap(ctx, "wrong-token", authsdk.BootstrapRequest{
		Name: "Mallory", Email: "mallory@propdesk.com", Password: "mallory-pass",
	})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated)

	bootstrapAdmin(t, client)

	_, err = client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		Name: "Second", Email: "second@propdesk.com", Password: "second-pass",
	})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated)
}

func TestDirectoryIsAdminOnly(t *testing.T) {
	_, client := startApp(t, testConfig(t), false)
	ctx := t.Context()

	bootstrapAdmin(t, client)
	createIdentity(t, client, "property_manager", "sarah@propdesk.com", "manager-pass")

	_, err := client.CreateIdentity(ctx, authsdk.CreateIdentityRequest{
		Name: "Dup", Email: "Sarah@PropDesk.com", Role: "tenant", Password: "dup-password",
	})
	requireAPIError(t, err, http.StatusConflict, authsdk.ErrorCodeEmailTaken)

	list, err := client.ListIdentities(ctx)
	require.NoError(t, err)
	require.Len(t, list.Identities, 2)

	_, err = client.Login(ctx, "sarah@propdesk.com", "manager-pass")
	require.NoError(t, err)

	_, err = client.ListIdentities(ctx)
	requireAPIError(t, err, http.StatusForbidden, authsdk.ErrorCodeAccessDenied)
}

func TestDemoDirectoryWithTrustAnyPassword(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedDemoDirectory = true
	cfg.TrustAnyPassword = true
	_, client := startApp(t, cfg, false)
	ctx := t.Context()

	for _, demo := range service.DemoDirectory {
		login, err := client.Login(ctx, demo.Email, "anything")
		require.NoError(t, err, demo.Email)
		require.Equal(t, string(demo.Role), login.Session.Identity.Role)
		require.Equal(t, demo.Name, login.Session.Identity.Name)
	}

	_, err := client.Login(ctx, "unknown@propdesk.com", "anything")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeLoginFailed)

	// The seeded directory is not empty so bootstrap is refused.
	_, err = client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		Name: "Late", Email: "late@propdesk.com", Password: "late-password",
	})
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated)
}

func TestHealth(t *testing.T) {
	_, client := startApp(t, testConfig(t), false)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Session)
}
