package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/propdesk/internal/propdesk/http"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/service"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/session"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store"
	redisdrv "github.com/aussiebroadwan/propdesk/internal/propdesk/store/drivers/redis"
	"github.com/aussiebroadwan/propdesk/internal/propdesk/store/drivers/sqlite"
	"github.com/aussiebroadwan/propdesk/pkg/cryptox"
	"github.com/aussiebroadwan/propdesk/pkg/jwtx"
	"github.com/aussiebroadwan/propdesk/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the directory, the session manager and the HTTP API.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	redis    *redisdrv.KV // nil unless SESSION_STORAGE=redis
	sessions *session.Manager
	tickets  *jwtx.Tickets

	authenticator    *service.Authenticator
	identityService  *service.IdentityService
	bootstrapService *service.BootstrapService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialised. The session
// is not loaded yet; see LoadSession.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "propdesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, err
	}

	tickets, err := jwtx.LoadTickets(cfg.TicketKeyFile, cfg.TicketIssuer, cfg.TicketTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tickets: %w", err)
	}
	app.tickets = tickets

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSessions(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	if err := app.initDirectory(context.Background()); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler is the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// LoadSession restores the persisted session. Until it returns, protected
// routes answer 503.
func (app *Application) LoadSession(ctx context.Context) error {
	if err := app.sessions.Load(ctx); err != nil {
		app.logger.Error("failed to load persisted session", "error", err)
		return err
	}

	if sess := app.sessions.Current().Session; sess != nil {
		app.logger.Info("session restored",
			"session_id", sess.ID,
			"identity_id", sess.Identity.ID,
			"role", sess.Identity.Role,
		)
	} else {
		app.logger.Info("no persisted session")
	}
	return nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("propdesk starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"session_storage", app.cfg.SessionStorage,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	go func() {
		_ = app.LoadSession(context.Background())
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server and closes the session manager and stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down propdesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("propdesk stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if err := app.sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close sessions: %w", err))
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	err := errors.Join(errs...)
	if err != nil {
		app.logger.Error("error closing stores", "error", err)
	}
	return err
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initSessions() error {
	kv := app.db.KV()

	if app.cfg.SessionStorage == SessionStorageRedis {
		app.redis = redisdrv.New(app.cfg.RedisAddr, app.cfg.RedisPrefix)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.redis.Ping(ctx); err != nil {
			_ = app.redis.Close()
			return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
		}
		kv = app.redis
	}

	app.sessions = session.NewManager(kv,
		session.WithKey(app.cfg.SessionKey),
		session.WithLogger(app.logger),
	)
	return nil
}

func (app *Application) initServices() {
	app.authenticator = &service.Authenticator{
		Directory:        app.db.Identities(),
		Sessions:         app.sessions,
		TrustAnyPassword: app.cfg.TrustAnyPassword,
		Latency:          app.cfg.LoginLatency,
	}
	if app.cfg.TrustAnyPassword {
		app.logger.Warn("AUTH_TRUST_ANY_PASSWORD is set: passwords are not checked")
	}

	app.identityService = &service.IdentityService{Store: app.db}
	app.bootstrapService = &service.BootstrapService{
		Store: app.db,
		Token: app.cfg.BootstrapToken,
	}
}

// initDirectory seeds the demo directory when asked to, and otherwise makes
// sure an empty directory can be bootstrapped.
func (app *Application) initDirectory(ctx context.Context) error {
	if app.cfg.SeedDemoDirectory {
		n, err := service.SeedDemo(ctx, app.db, app.logger)
		if err != nil {
			return fmt.Errorf("failed to seed demo directory: %w", err)
		}
		if n > 0 {
			app.logger.Info("demo directory seeded", "identities", n)
		}
	}

	bootstrapped, err := app.bootstrapService.IsBootstrapped(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect directory: %w", err)
	}
	if bootstrapped || app.bootstrapService.Token != "" {
		return nil
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return fmt.Errorf("failed to generate bootstrap token: %w", err)
	}
	app.bootstrapService.Token = token
	app.logger.Warn("directory is empty; POST /v1/bootstrap with this token to create the first admin",
		"bootstrap_token", token,
	)
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.db,
		app.sessions,
		app.tickets,
		BuildVersion,
		app.logger,
	)

	router.Authenticator = app.authenticator
	router.IdentityService = app.identityService
	router.BootstrapService = app.bootstrapService
	router.TrustProxyHeaders = app.cfg.TrustProxyHeaders
	if app.redis != nil {
		router.SessionStore = app.redis
	}
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
