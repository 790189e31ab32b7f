package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration resolved from configs/.env and the environment
type Config struct {
	AppEnv   string
	LogLevel string
	Port     string
	GinMode  string

	DatabaseURL     string
	DBLockTimeout   time.Duration
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	CORSAllowOrigin []string
}

// Load reads configs/.env when present, then the environment
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnv("PORT", "8080"),
		GinMode:  os.Getenv("GIN_MODE"),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = BuildDSN(
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "postgres"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	var err error
	cfg.DBLockTimeout, err = time.ParseDuration(getEnv("DB_LOCK_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_LOCK_TIMEOUT: %w", err)
	}
	if cfg.DBLockTimeout < 0 {
		return nil, fmt.Errorf("invalid DB_LOCK_TIMEOUT: must not be negative")
	}

	if cfg.DBMaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}

	cfg.CORSAllowOrigin = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"))

	return cfg, nil
}

// IsProduction reports whether the app runs with production defaults
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BuildDSN assembles a postgres:// connection string
func BuildDSN(user, password, host, port, name, sslMode string) string {
	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
