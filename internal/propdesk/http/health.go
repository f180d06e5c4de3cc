package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
)

// Pinger is a dependency readiness can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// LivezHandler always reports ok while the process is serving.
//
//	@Summary	Liveness check
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	authsdk.HealthResponse
//	@Router		/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler checks the directory database, the session storage (when it
// is separate) and that the session has been loaded.
//
//	@Summary	Readiness check
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	authsdk.HealthResponse
//	@Failure	503	{object}	authsdk.HealthResponse
//	@Router		/readyz [get].
func ReadyzHandler(startTime time.Time, version string, db, sessionStore Pinger, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{Database: "ok", SessionStore: "ok", Session: "ok"}
		status, code := "ok", http.StatusOK

		degrade := func(field *string, msg string) {
			*field = msg
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if err := db.Ping(r.Context()); err != nil {
			degrade(&checks.Database, "error: "+err.Error())
		}
		if sessionStore != nil {
			if err := sessionStore.Ping(r.Context()); err != nil {
				degrade(&checks.SessionStore, "error: "+err.Error())
			}
		}
		if !sessions.Current().Loaded {
			degrade(&checks.Session, "loading")
		}

		httpx.WriteJSON(w, code, authsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
