package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	apperrors "github.com/jrsteele09/hubspot-oauth-quickstart/internal/errors"
)

type Config interface {
	EnvConfig
	HubSpotConfig
	StoreConfig
}

type EnvConfig interface {
	GetPort() string
	GetBaseURL() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetSessionSecret() string
	GetHTTPTimeout() time.Duration
}

type StoreConfig interface {
	GetTokenStore() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSQLitePath() string
}

// Option adjusts loaded values before validation, e.g. command line overrides.
type Option func(*Values)

// WithPort overrides the PORT environment variable.
func WithPort(port string) Option {
	return func(v *Values) {
		if port != "" {
			v.Port = port
		}
	}
}

// Values holds the raw configuration parsed from the environment.
type Values struct {
	Port          string        `env:"PORT" envDefault:"3000"`
	AppName       string        `env:"APP_NAME" envDefault:"HubSpot OAuth Quickstart"`
	Env           string        `env:"ENV" envDefault:"DEV"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionSecret string        `env:"SESSION_SECRET"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"0s"`

	ClientID       string `env:"CLIENT_ID"`
	ClientSecret   string `env:"CLIENT_SECRET"`
	Scope          string `env:"SCOPE"`
	RedirectURI    string `env:"REDIRECT_URI"`
	AuthorizeURL   string `env:"HUBSPOT_AUTHORIZE_URL" envDefault:"https://app.hubspot.com/oauth/authorize"`
	TokenURL       string `env:"HUBSPOT_TOKEN_URL" envDefault:"https://api.hubapi.com/oauth/v1/token"`
	APIBaseURL     string `env:"HUBSPOT_API_BASE_URL" envDefault:"https://api.hubapi.com"`
	PagePayloadURL string `env:"PAGE_PAYLOAD_URL"`

	TokenStore    string `env:"TOKEN_STORE" envDefault:"memory"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/tokens.db"`
}

var _ Config = (*Values)(nil)

// Load parses the environment and checks the required client credentials.
// A missing client id or secret is a fatal startup condition for callers.
func Load(opts ...Option) (Config, error) {
	var v Values
	if err := env.Parse(&v); err != nil {
		return nil, apperrors.Wrapf(err, "[config Load] parse environment")
	}
	for _, opt := range opts {
		opt(&v)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Validate reports missing required credentials.
func (v *Values) Validate() error {
	var errs []error
	if v.ClientID == "" {
		errs = append(errs, apperrors.ErrMissingClientID)
	}
	if v.ClientSecret == "" {
		errs = append(errs, apperrors.ErrMissingClientSecret)
	}
	switch v.TokenStore {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		errs = append(errs, apperrors.Wrapf(apperrors.ErrUnknownTokenStore, "%q", v.TokenStore))
	}
	return apperrors.Join(errs...)
}
