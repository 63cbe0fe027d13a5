// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/verrloren/hackathon-evrz/internal/apperr"
)

// Config holds the client configuration loaded from the environment.
type Config struct {
	// BackendURL is the base URL of the remote backend (e.g. https://api.example.com). Required.
	BackendURL string `mapstructure:"BACKEND_API_URL"`
	// BackendAPIKey is sent as the API-Key header on every backend request. Required.
	BackendAPIKey string `mapstructure:"BACKEND_API_KEY"`
	// Env is the application environment (e.g. "development", "production"). Selects the log format.
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// RequestTimeout bounds each backend request (e.g. "10s"). "0" means no timeout.
	RequestTimeout string `mapstructure:"REQUEST_TIMEOUT"`

	// SessionToken is the session token observed at startup; empty means no session.
	SessionToken string `mapstructure:"SESSION_TOKEN"`
	// SessionFile is where teamctl keeps the token between invocations.
	SessionFile string `mapstructure:"SESSION_FILE"`
	// SessionPublicKey is the PEM (or path to PEM) used to verify session tokens. Empty disables verification.
	SessionPublicKey string `mapstructure:"SESSION_PUBLIC_KEY"`
	// SessionIssuer is the expected iss claim when verification is enabled.
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionAudience is the expected aud claim when verification is enabled.
	SessionAudience string `mapstructure:"SESSION_AUDIENCE"`

	// AccessPolicyFile is an optional Rego file overriding which views require a session.
	AccessPolicyFile string `mapstructure:"ACCESS_POLICY_FILE"`
	// AlwaysReportTeamCreated keeps the optimistic "team created" notification even when the backend fails.
	AlwaysReportTeamCreated bool `mapstructure:"ALWAYS_REPORT_TEAM_CREATED"`

	// OTLPEndpoint is the OTLP gRPC collector (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// KafkaBrokers is a comma-separated broker list. When set, action events go to Kafka instead of OTel logs.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// ActionsKafkaTopic is the topic for action events.
	ActionsKafkaTopic string `mapstructure:"ACTIONS_KAFKA_TOPIC"`
}

// DevBackendConfig holds configuration for the local development backend.
type DevBackendConfig struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"DEV_BACKEND_ADDR"`
	// APIKey is the key every request must present in the API-Key header. Required.
	APIKey string `mapstructure:"BACKEND_API_KEY"`
	// DatabaseURL is the Postgres DSN; empty selects the in-memory store.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// BcryptCost is the bcrypt cost factor (4 to 31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// SessionPrivateKey is the PEM (or path) used to sign session tokens. Empty generates an ephemeral key.
	SessionPrivateKey string `mapstructure:"SESSION_PRIVATE_KEY"`
	// SessionIssuer is the iss claim on issued tokens.
	SessionIssuer string `mapstructure:"SESSION_ISSUER"`
	// SessionAudience is the aud claim on issued tokens.
	SessionAudience string `mapstructure:"SESSION_AUDIENCE"`
	// SessionTTL is the session token lifetime (e.g. "24h").
	SessionTTL string `mapstructure:"SESSION_TTL"`
	Env        string `mapstructure:"APP_ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	// OTLPEndpoint is the OTLP gRPC collector; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_ISSUER", "hackathon-evrz")
	v.SetDefault("SESSION_AUDIENCE", "hackathon-evrz-web")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("BACKEND_API_KEY", "")
	return v
}

// Load reads .env (if present), then builds and validates the client Config from the environment.
// A missing backend URL or API key is a configuration error: no gateway may be built without them.
func Load() (*Config, error) {
	v := newViper()
	v.SetDefault("BACKEND_API_URL", "")
	v.SetDefault("REQUEST_TIMEOUT", "0")
	v.SetDefault("SESSION_TOKEN", "")
	v.SetDefault("SESSION_FILE", ".teamctl-session")
	v.SetDefault("SESSION_PUBLIC_KEY", "")
	v.SetDefault("ACCESS_POLICY_FILE", "")
	v.SetDefault("ALWAYS_REPORT_TEAM_CREATED", true)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("ACTIONS_KAFKA_TOPIC", "team-actions")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.BackendURL = strings.TrimSpace(cfg.BackendURL)
	cfg.BackendAPIKey = strings.TrimSpace(cfg.BackendAPIKey)

	if cfg.BackendURL == "" {
		return nil, apperr.Configuration("config: BACKEND_API_URL must be set")
	}
	if cfg.BackendAPIKey == "" {
		return nil, apperr.Configuration("config: BACKEND_API_KEY must be set")
	}
	if _, err := time.ParseDuration(normalizeDuration(cfg.RequestTimeout)); err != nil {
		return nil, errors.New("config: REQUEST_TIMEOUT must be a duration (e.g. 10s or 0)")
	}
	return &cfg, nil
}

// LoadDevBackend reads the development backend configuration.
func LoadDevBackend() (*DevBackendConfig, error) {
	v := newViper()
	v.SetDefault("DEV_BACKEND_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("SESSION_PRIVATE_KEY", "")
	v.SetDefault("SESSION_TTL", "24h")

	var cfg DevBackendConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		return nil, errors.New("config: DEV_BACKEND_ADDR must be set")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperr.Configuration("config: BACKEND_API_KEY must be set")
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	return &cfg, nil
}

// LoadDatabaseURL reads only DATABASE_URL, for tools that touch the database and nothing else.
func LoadDatabaseURL() (string, error) {
	v := newViper()
	v.SetDefault("DATABASE_URL", "")
	dsn := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if dsn == "" {
		return "", apperr.Configuration("config: DATABASE_URL must be set")
	}
	return dsn, nil
}

// Timeout parses RequestTimeout. Returns 0 (no timeout) if unset, invalid, or negative.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(normalizeDuration(c.RequestTimeout))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// KafkaBrokersList returns broker addresses from the comma-separated config.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// TTL parses SessionTTL. Returns 24h if unset or invalid.
func (c *DevBackendConfig) TTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func normalizeDuration(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return "0s"
	}
	return s
}
