package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/propdesk/internal/propdesk/domain"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/guard"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	"github.com/aussiebroadwan/propdesk/pkg/httpx"
	"github.com/aussiebroadwan/propdesk/pkg/jwtx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/propdesk/api/propdesk" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	sessions *session.Manager
	tickets  *jwtx.Tickets

	// SessionStore is pinged by /readyz when sessions live outside the
	// directory database.
	SessionStore Pinger

	// TrustProxyHeaders keys rate limits on X-Forwarded-For/X-Real-IP. Only
	// set it behind a proxy that overwrites them.
	TrustProxyHeaders bool

	Authenticator    *service.Authenticator
	IdentityService  *service.IdentityService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	st store.Store,
	sessions *session.Manager,
	tickets *jwtx.Tickets,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		sessions:     sessions,
		tickets:      tickets,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerPermissions()
	r.registerViews()
	r.registerIdentities()
	r.registerBootstrap()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP applies the global middleware chain.
//
//	@title			PropDesk Session API
//	@version		0.1.0
//	@description	Session and authorization core for the property dashboard: login, the current session, permission checks and role-guarded views.
//	@description
//	@description				Tickets are EdDSA-signed JWTs bound to the current session.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/propdesk
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session ticket. Format: "Bearer {ticket}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// protect wraps h in a guard for req that also demands the current ticket.
func (r *Router) protect(h http.Handler, req guard.Requirement, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		r.limitByIP(limit),
		guard.Middleware(r.sessions, req, guard.WithTickets(r.tickets)),
	)
}

func (r *Router) ipOption() httpx.IPOption {
	return httpx.TrustProxyHeaders(r.TrustProxyHeaders)
}

func (r *Router) limitByIP(cfg httpx.RateLimitConfig) httpx.Middleware {
	return httpx.RateLimitByIP(cfg, r.ipOption())
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		Authenticator: r.Authenticator,
		Sessions:      r.sessions,
		Tickets:       r.tickets,
	}

	// Login attempts are limited per address and email.
	r.Mux.Handle("POST /v1/session/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email", r.ipOption()),
		),
	)
	r.Mux.Handle("POST /v1/session/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.limitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.limitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPermissions() {
	r.Mux.Handle("GET /v1/permissions/{permission}",
		r.protect(http.HandlerFunc(PermissionHandler), guard.Requirement{}, httpx.LenientLimit),
	)
}

func (r *Router) registerViews() {
	for name, perm := range dashboardViews {
		r.Mux.Handle("GET /v1/views/"+name,
			r.protect(viewHandler(name, perm), guard.Requirement{Permission: perm}, httpx.LenientLimit),
		)
	}
}

func (r *Router) registerIdentities() {
	h := &IdentitiesHandler{IdentityService: r.IdentityService}
	admin := guard.Requirement{Role: domain.RoleAdmin}

	r.Mux.Handle("GET /v1/identities",
		r.protect(http.HandlerFunc(h.HandleList), admin, httpx.ModerateLimit),
	)
	r.Mux.Handle("POST /v1/identities",
		r.protect(http.HandlerFunc(h.HandleCreate), admin, httpx.ModerateLimit),
	)
	r.Mux.Handle("PATCH /v1/identities/{id}",
		r.protect(http.HandlerFunc(h.HandleUpdate), admin, httpx.ModerateLimit),
	)
}

func (r *Router) registerBootstrap() {
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(&BootstrapHandler{BootstrapService: r.BootstrapService},
			r.limitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			r.limitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.SessionStore, r.sessions),
			r.limitByIP(httpx.PublicLimit),
		),
	)
}
