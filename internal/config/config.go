package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver      string
	DBConnection  string
	DBAutoMigrate bool

	// Auth: OIDC when OIDCIssuer is set, HS256 development tokens otherwise
	JWTSecret    string
	JWTExpiry    time.Duration
	OIDCIssuer   string
	OIDCClientID string

	// Completion service
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Calendar used for check-ins and streaks
	Timezone string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Goal Wizard"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:      envString("DB_DRIVER", "sqlite"),
		DBConnection:  envString("DB_CONNECTION", "./data/goals.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),
		DBAutoMigrate: envBool("DB_AUTO_MIGRATE", true),

		// Auth
		JWTExpiry:    envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		OIDCIssuer:   envString("OIDC_ISSUER", ""),
		OIDCClientID: envString("OIDC_CLIENT_ID", ""),

		// Completion service
		OpenAIAPIKey:  envString("OPENAI_API_KEY", ""),
		OpenAIBaseURL: envString("OPENAI_BASE_URL", ""),
		OpenAIModel:   envString("OPENAI_MODEL", "gpt-4o"),

		Timezone: envString("APP_TIMEZONE", "Local"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	// The HS256 secret is only needed when no external identity provider is configured
	if cfg.OIDCIssuer == "" {
		cfg.JWTSecret = envRequired("JWT_SECRET")
	} else {
		cfg.JWTSecret = envString("JWT_SECRET", "")
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows the completion service to be missing; generation routes then answer 500.
func validateProduction(cfg *Config) {
	if cfg.OpenAIAPIKey == "" {
		slog.Error("production deployment requires OPENAI_API_KEY",
			"hint", "set APP_ENV=development to run without the completion service")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Location resolves Timezone, falling back to the server's local zone.
func (c *Config) Location() *time.Location {
	return ParseLocation(c.Timezone)
}

func ParseLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("config invalid timezone, using local", "value", name, "error", err)
		return time.Local
	}
	return loc
}
