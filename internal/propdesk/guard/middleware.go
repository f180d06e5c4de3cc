package guard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/pkg/authsdk"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
	"github.com/aussiebroadwan/propdesk/pkg/jwtx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

var ErrSessionMismatch = errors.New("ticket does not belong to the current session")

// TicketVerifier checks a raw bearer ticket. *jwtx.Tickets implements it.
type TicketVerifier interface {
	Verify(raw string) (jwtx.Claims, error)
}

type middlewareConfig struct {
	tickets     TicketVerifier
	fallback    http.Handler
	placeholder http.Handler
}

type MiddlewareOption func(*middlewareConfig)

// WithTickets requires a bearer ticket whose sid matches the current
// session. Without it the session alone decides.
func WithTickets(v TicketVerifier) MiddlewareOption {
	return func(c *middlewareConfig) { c.tickets = v }
}

// WithFallback serves h instead of the 401/403 error when access is denied.
func WithFallback(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) { c.fallback = h }
}

// WithPlaceholder serves h instead of the 503 error while loading.
func WithPlaceholder(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) { c.placeholder = h }
}

type ctxKey struct{}

// SessionFrom returns the session the request was authorized against.
func SessionFrom(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*domain.Session)
	return s, ok && s != nil
}

// Middleware evaluates req against the current session on every request.
func Middleware(mgr *session.Manager, req Requirement, opts ...MiddlewareOption) httpx.Middleware {
	var cfg middlewareConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := mgr.Current()
			state := Evaluate(snap, req)

			if state != Loading && state != Unauthenticated && cfg.tickets != nil {
				if err := VerifyTicket(cfg.tickets, httpx.BearerToken(r), snap.Session); err != nil {
					slogx.FromContext(r.Context()).Info("ticket rejected", slog.Any("error", err))
					state = Unauthenticated
				}
			}

			children := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), ctxKey{}, snap.Session)
				ctx = slogx.With(ctx,
					slog.String("session_id", snap.Session.ID),
					slog.String("identity_id", snap.Session.Identity.ID),
				)
				next.ServeHTTP(w, r.WithContext(ctx))
			})

			if state != Authorized {
				slogx.FromContext(r.Context()).Info("guard denied request",
					slog.String("state", state.String()),
					slog.String("required_role", string(req.Role)),
					slog.String("required_permission", string(req.Permission)),
				)
			}

			Render[http.Handler](state, children,
				orDefault(cfg.fallback, deniedHandler(state)),
				orDefault(cfg.placeholder, errorHandler(authsdk.ErrSessionLoading)),
			).ServeHTTP(w, r)
		})
	}
}

// VerifyTicket checks that raw is a valid ticket issued for sess.
func VerifyTicket(v TicketVerifier, raw string, sess *domain.Session) error {
	if raw == "" {
		return jwtx.ErrMalformed
	}
	claims, err := v.Verify(raw)
	if err != nil {
		return err
	}
	if sess == nil || claims.SID != sess.ID || claims.Subject != sess.Identity.ID {
		return ErrSessionMismatch
	}
	return nil
}

func deniedHandler(state State) http.Handler {
	if state == Unauthorized {
		return errorHandler(authsdk.ErrAccessDenied)
	}
	return errorHandler(authsdk.ErrUnauthenticated)
}

func errorHandler(e *authsdk.APIError) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if e.StatusCode == http.StatusServiceUnavailable {
			w.Header().Set("Retry-After", "1")
		}
		e.WriteError(w)
	})
}

func orDefault(h, def http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return def
}
