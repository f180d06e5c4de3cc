package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SessionStorageSQLite = "sqlite"
	SessionStorageRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port                int           `envconfig:"PORT" default:"8080"`
	Env                 string        `envconfig:"ENV" default:"dev"`
	LogLevel            string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat           string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownGracePeriod time.Duration `envconfig:"SHUTDOWN_GRACE_PERIOD" default:"10s"`

	// TrustProxyHeaders makes rate limits key on X-Forwarded-For. Only for
	// deployments behind a proxy that overwrites the header.
	TrustProxyHeaders bool `envconfig:"TRUST_PROXY_HEADERS" default:"false"`

	DatabaseFile string `envconfig:"DATABASE_FILE" default:"propdesk.db"`
	PepperFile   string `envconfig:"PEPPER_FILE" default:"pepper"`

	TicketKeyFile string        `envconfig:"TICKET_KEY_FILE" default:"ticket.pem"`
	TicketIssuer  string        `envconfig:"TICKET_ISSUER" default:"propdesk"`
	TicketTTL     time.Duration `envconfig:"TICKET_TTL" default:"12h"`

	// SessionStorage is where the current session is persisted: sqlite
	// (the directory database) or redis.
	SessionStorage string `envconfig:"SESSION_STORAGE" default:"sqlite"`
	SessionKey     string `envconfig:"SESSION_KEY" default:"propdesk.session"`
	RedisAddr      string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPrefix    string `envconfig:"REDIS_PREFIX" default:"propdesk:"`

	TrustAnyPassword bool          `envconfig:"AUTH_TRUST_ANY_PASSWORD" default:"false"`
	LoginLatency     time.Duration `envconfig:"AUTH_LOGIN_LATENCY" default:"0s"`

	BootstrapToken    string `envconfig:"BOOTSTRAP_TOKEN"`
	SeedDemoDirectory bool   `envconfig:"SEED_DEMO_DIRECTORY" default:"false"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.SessionStorage {
	case SessionStorageSQLite, SessionStorageRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORAGE must be %q or %q, got %q",
			SessionStorageSQLite, SessionStorageRedis, c.SessionStorage))
	}
	if c.SessionKey == "" {
		errs = append(errs, errors.New("SESSION_KEY must not be empty"))
	}
	if c.TicketTTL <= 0 {
		errs = append(errs, errors.New("TICKET_TTL must be positive"))
	}
	if c.LoginLatency < 0 {
		errs = append(errs, errors.New("AUTH_LOGIN_LATENCY must not be negative"))
	}
	if c.TrustAnyPassword && c.IsProduction() {
		errs = append(errs, errors.New("AUTH_TRUST_ANY_PASSWORD is not allowed in prod"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// IsProduction reports whether the service runs in prod.
func (c Config) IsProduction() bool {
	return c.Env == "prod"
}
