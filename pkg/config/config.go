package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/platinummonkey/gatehouse/pkg/observability"
	"github.com/platinummonkey/gatehouse/pkg/sessions"
	"github.com/platinummonkey/gatehouse/pkg/storage"
)

// EnvProduction gates error verbosity and the dev-secret check
const EnvProduction = "production"

// devSessionSecret is only acceptable outside production
const devSessionSecret = "keep it secret, keep it safe!"

// Config holds all application configuration
type Config struct {
	// Environment is "development" or "production"
	Environment string

	Server  ServerConfig
	Storage storage.Config
	Session SessionConfig
	Auth    AuthConfig

	LogLevel observability.LogLevel
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes and /metrics)
	HealthPort string

	// CORSOrigins are the origins allowed to call the API with credentials
	CORSOrigins []string
}

// SessionConfig holds session and cookie settings
type SessionConfig struct {
	TTL           time.Duration
	Rolling       bool
	CookieName    string
	CookieSecure  bool
	Secret        string
	PurgeSchedule string

	// RedisURL switches session storage to Redis when set
	RedisURL string
}

// AuthConfig holds credential policy settings
type AuthConfig struct {
	BcryptCost        int
	MinPasswordLength int
	LoginRatePerMin   int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("GATEHOUSE_ENV", "development"),
		Server:      loadServerConfig(),
		Storage:     loadStorageConfig(),
		Session:     loadSessionConfig(),
		Auth:        loadAuthConfig(),
		LogLevel:    parseLogLevel(getEnv("GATEHOUSE_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Verbose reports whether error responses may carry internal detail
func (c *Config) Verbose() bool {
	return c.Environment != EnvProduction
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("GATEHOUSE_HOST", "0.0.0.0"),
		Port:            getEnv("GATEHOUSE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("GATEHOUSE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("GATEHOUSE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("GATEHOUSE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("GATEHOUSE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("GATEHOUSE_HEALTH_PORT", "9090"),
		CORSOrigins:     getEnvList("GATEHOUSE_CORS_ORIGINS"),
	}
}

func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if driver := getEnv("GATEHOUSE_STORAGE_DRIVER", ""); driver != "" {
		cfg.Driver = driver
	}
	if path := getEnv("GATEHOUSE_SQLITE_PATH", ""); path != "" {
		cfg.SQLitePath = path
	}
	if url := getEnv("GATEHOUSE_POSTGRES_URL", ""); url != "" {
		cfg.PostgresURL = url
	}
	if maxConns := getEnvInt("GATEHOUSE_DB_MAX_CONNS", 0); maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns := getEnvInt("GATEHOUSE_DB_MIN_CONNS", 0); minConns > 0 {
		cfg.MinConns = minConns
	}
	if timeout := getEnvDuration("GATEHOUSE_DB_PING_TIMEOUT", 0); timeout > 0 {
		cfg.PingTimeout = timeout
	}

	return cfg
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:           getEnvDuration("GATEHOUSE_SESSION_TTL", sessions.DefaultTTL),
		Rolling:       getEnvBool("GATEHOUSE_SESSION_ROLLING", true),
		CookieName:    getEnv("GATEHOUSE_COOKIE_NAME", "chocolatechip"),
		CookieSecure:  getEnvBool("GATEHOUSE_COOKIE_SECURE", false),
		Secret:        getEnv("GATEHOUSE_SESSION_SECRET", devSessionSecret),
		PurgeSchedule: getEnv("GATEHOUSE_SESSION_PURGE_SCHEDULE", sessions.DefaultPurgeSchedule),
		RedisURL:      getEnv("GATEHOUSE_REDIS_URL", ""),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		BcryptCost:        getEnvInt("GATEHOUSE_BCRYPT_COST", 8),
		MinPasswordLength: getEnvInt("GATEHOUSE_MIN_PASSWORD_LENGTH", 4),
		LoginRatePerMin:   getEnvInt("GATEHOUSE_LOGIN_RATE_PER_MIN", 10),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage driver: %s (must be sqlite or postgres)", c.Storage.Driver)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("cookie name is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Environment == EnvProduction && c.Session.Secret == devSessionSecret {
		return fmt.Errorf("GATEHOUSE_SESSION_SECRET must be set in production")
	}

	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}
	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("minimum password length must be positive")
	}

	return nil
}

func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvList returns a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
