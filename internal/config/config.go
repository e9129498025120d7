package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Accounts AccountsConfig
	Log      LogConfig
}

// ServerConfig - HTTP server settings
type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig - database settings
type DatabaseConfig struct {
	Driver      string // "mysql" or "sqlite3"
	DSN         string // e.g. "user:password@tcp(localhost:3306)/hr?parseTime=true" or "hr.db"
	AutoMigrate bool
}

// JWTConfig - session token settings
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// AccountsConfig holds defaults used when accounts are created or reset.
type AccountsConfig struct {
	EmailDomain     string
	DefaultPassword string
	RosterFile      string
}

// LogConfig - logging settings
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

const devJWTSecret = "dev-only-insecure-secret"

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := durationEnv("JWT_TTL", 72*time.Hour)
	if err != nil {
		return nil, err
	}
	shutdown, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            normalizePort(getEnvOrDefault("PORT", "8080")),
			CORSOrigins:     splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
			ShutdownTimeout: shutdown,
		},
		Database: DatabaseConfig{
			Driver:      getEnvOrDefault("DB_DRIVER", "sqlite3"),
			DSN:         getEnvOrDefault("DB_DSN", "hr.db"),
			AutoMigrate: parseBoolEnv(getEnvOrDefault("AUTO_MIGRATE", "1")),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    ttl,
		},
		Accounts: AccountsConfig{
			EmailDomain:     getEnvOrDefault("EMAIL_DOMAIN", "company.com"),
			DefaultPassword: getEnvOrDefault("DEFAULT_PASSWORD", "123456"),
			RosterFile:      os.Getenv("ROSTER_FILE"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted safely.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q: must be mysql or sqlite3", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("DB_DSN is empty")
	}
	if c.JWT.Secret == "" {
		// A throwaway secret is only acceptable for a local sqlite database.
		if c.Database.Driver != "sqlite3" {
			return errors.New("JWT_SECRET is required")
		}
		c.JWT.Secret = devJWTSecret
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if len(c.Accounts.DefaultPassword) < 6 {
		return errors.New("DEFAULT_PASSWORD must be at least 6 characters")
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	return val
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func parseBoolEnv(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func normalizePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
