package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Identity and document store backends selectable through the environment.
const (
	BackendSurreal = "surreal"
	BackendMemory  = "memory"
	BackendFile    = "file"
	BackendSQLite  = "sqlite"
)

// Provider exposes read-only access to the application configuration.
// Components depend on this interface rather than on the concrete Config so
// tests can supply partial mocks.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetLogFormat() string
	GetLogLevel() string

	GetIdentityBackend() string
	GetTokenSecret() string
	GetTokenTTL() time.Duration

	GetDocStore() string
	GetDocStorePath() string

	GetDBURL() string
	GetDBUser() string
	GetDBPass() string
	GetDBNs() string
	GetDBDb() string
	GetDBAccess() string
	GetDBBootstrap() bool
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration

	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string `env:"APP_ADDR" envDefault:":8080"`
	AppBaseURL    string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"change-me-in-production"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"debug"`

	IdentityBackend string        `env:"IDENTITY_BACKEND" envDefault:"surreal"`
	TokenSecret     string        `env:"TOKEN_SECRET" envDefault:"change-me-too"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	DocStore     string `env:"DOC_STORE" envDefault:"surreal"`
	DocStorePath string `env:"DOC_STORE_PATH" envDefault:"data"`

	DBUrl            string        `env:"SURREAL_URL"`
	DBUser           string        `env:"SURREAL_USER"`
	DBPass           string        `env:"SURREAL_PASS"`
	DBNs             string        `env:"SURREAL_NS"`
	DBDb             string        `env:"SURREAL_DB"`
	DBAccess         string        `env:"SURREAL_ACCESS" envDefault:"account"`
	DBBootstrap      bool          `env:"SURREAL_BOOTSTRAP" envDefault:"false"`
	DBQueryTimeout   time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	DBExecuteTimeout time.Duration `env:"DB_EXECUTE_TIMEOUT" envDefault:"10s"`

	TracingEnabled     bool   `env:"PUBSUB_TRACING_ENABLED" envDefault:"false"`
	TracingServiceName string `env:"PUBSUB_TRACING_SERVICE_NAME" envDefault:"frontdoor"`
	TracingZipkinURL   string `env:"PUBSUB_TRACING_ZIPKIN_URL" envDefault:"http://localhost:9411/api/v2/spans"`
}

// New loads configuration from the environment, reading a .env file first
// when one is present. The returned Config has not been validated.
func New(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.IdentityBackend = strings.ToLower(strings.TrimSpace(cfg.IdentityBackend))
	cfg.DocStore = strings.ToLower(strings.TrimSpace(cfg.DocStore))
	return cfg, nil
}

// Validate checks that the settings required by the selected backends are set.
func (c *Config) Validate() error {
	var errs []error

	switch c.IdentityBackend {
	case BackendSurreal, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("IDENTITY_BACKEND %q is not one of surreal, memory", c.IdentityBackend))
	}
	switch c.DocStore {
	case BackendSurreal, BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("DOC_STORE %q is not one of surreal, file, sqlite", c.DocStore))
	}

	if c.UsesSurreal() && (c.DBUrl == "" || c.DBNs == "" || c.DBDb == "") {
		errs = append(errs, errors.New("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal backend"))
	}
	if c.DBQueryTimeout <= 0 || c.DBExecuteTimeout <= 0 {
		errs = append(errs, errors.New("DB_QUERY_TIMEOUT and DB_EXECUTE_TIMEOUT must be positive durations"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be a positive duration"))
	}
	return errors.Join(errs...)
}

// UsesSurreal reports whether any backend needs a SurrealDB connection.
func (c *Config) UsesSurreal() bool {
	return c.IdentityBackend == BackendSurreal || c.DocStore == BackendSurreal
}

func (c *Config) GetAppAddr() string       { return c.AppAddr }
func (c *Config) GetAppBaseURL() string    { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetLogFormat() string     { return c.LogFormat }
func (c *Config) GetLogLevel() string      { return c.LogLevel }

func (c *Config) GetIdentityBackend() string         { return c.IdentityBackend }
func (c *Config) GetTokenSecret() string             { return c.TokenSecret }
func (c *Config) GetTokenTTL() time.Duration         { return c.TokenTTL }
func (c *Config) GetDocStore() string                { return c.DocStore }
func (c *Config) GetDocStorePath() string            { return c.DocStorePath }
func (c *Config) GetDBURL() string                   { return c.DBUrl }
func (c *Config) GetDBUser() string                  { return c.DBUser }
func (c *Config) GetDBPass() string                  { return c.DBPass }
func (c *Config) GetDBNs() string                    { return c.DBNs }
func (c *Config) GetDBDb() string                    { return c.DBDb }
func (c *Config) GetDBAccess() string                { return c.DBAccess }
func (c *Config) GetDBBootstrap() bool               { return c.DBBootstrap }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DBExecuteTimeout }

func (c *Config) GetTracingEnabled() bool       { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string { return c.TracingServiceName }
func (c *Config) GetTracingZipkinURL() string   { return c.TracingZipkinURL }
