package propdesk_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/app"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
)

/*
 * Helpers for end-to-end tests. Each test runs a full Application in process
 * behind an httptest server, with its database and key files in a temp dir.
 */

const (
	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "root@propdesk.com"
	adminPassword  = "Admin123!secret"
)

func testConfig(t *testing.T) app.Config {
	t.Helper()
	dir := t.TempDir()
	return app.Config{
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
		DatabaseFile:        filepath.Join(dir, "propdesk.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		TicketKeyFile:       filepath.Join(dir, "ticket.pem"),
		TicketIssuer:        "propdesk-e2e",
		TicketTTL:           time.Hour,
		SessionStorage:      app.SessionStorageSQLite,
		SessionKey:          "propdesk.session",
		BootstrapToken:      bootstrapToken,
	}
}

// startApp builds an Application from cfg, loads its session unless
// skipLoad, and serves it.
func startApp(t *testing.T, cfg app.Config, skipLoad bool) (*app.Application, *authsdk.Client) {
	t.Helper()

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Shutdown()
	})

	if !skipLoad {
		require.NoError(t, application.LoadSession(context.Background()))
	}
	return application, authsdk.NewClient(srv.URL)
}

// bootstrapAdmin creates the first admin and logs the client in as them.
func bootstrapAdmin(t *testing.T, client *authsdk.Client) *authsdk.LoginResponse {
	t.Helper()
	ctx := t.Context()

	resp, err := client.Bootstrap(ctx, bootstrapToken, authsdk.BootstrapRequest{
		Name:     "Root Admin",
		Email:    adminEmail,
		Password: adminPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "admin", resp.Identity.Role)

	login, err := client.Login(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	return login
}

func createIdentity(t *testing.T, client *authsdk.Client, role, email, password string) authsdk.IdentityInfo {
	t.Helper()
	ident, err := client.CreateIdentity(t.Context(), authsdk.CreateIdentityRequest{
		Name:     "E2E " + role,
		Email:    email,
		Role:     role,
		Password: password,
	})
	require.NoError(t, err)
	return *ident
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}
