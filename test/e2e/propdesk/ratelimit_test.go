package propdesk_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
)

// Login attempts for one email are limited to 5 per minute.
func TestRateLimitLogin(t *testing.T) {
	_, client := startApp(t, testConfig(t), false)
	ctx := t.Context()

	for range 5 {
		_, err := client.Login(ctx, "victim@propdesk.com", "guess")
		requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeLoginFailed)
	}

	_, err := client.Login(ctx, "victim@propdesk.com", "guess")
	requireAPIError(t, err, http.StatusTooManyRequests, "rate_limit_exceeded")

	// A different email has its own budget.
	_, err = client.Login(ctx, "other@propdesk.com", "guess")
	requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeLoginFailed)
}

func TestRateLimitBootstrap(t *testing.T) {
	_, client := startApp(t, testConfig(t), false)
	ctx := t.Context()

	req := authsdk.BootstrapRequest{Name: "X", Email: "x@propdesk.com", Password: "password-x"}
	for range 5 {
		_, err := client.Bootstrap(ctx, "wrong", req)
		requireAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeUnauthenticated)
	}

	_, err := client.Bootstrap(ctx, bootstrapToken, req)
	requireAPIError(t, err, http.StatusTooManyRequests, "rate_limit_exceeded")
}
