package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const devJWTSecret = "replace-this-with-a-strong-secret"

// Config holds everything the service and the CLI read from the environment.
type Config struct {
	HTTPAddr         string
	DatabaseURL      string
	ReadReplicas     []string
	DBLogLevel       string
	DBConnectAttempt int
	AutoMigrate      bool
	JWTSecret        string
	WireCompat       bool
	GinMode          string
	OTELEndpoint     string
	ServiceName      string
}

// Load reads the .env file when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:  getenv("DATABASE_URL", "posts.db"),
		ReadReplicas: splitList(os.Getenv("DATABASE_READ_REPLICAS")),
		DBLogLevel:   strings.ToLower(getenv("DB_LOG_LEVEL", "warn")),
		JWTSecret:    getenv("JWT_SECRET", devJWTSecret),
		GinMode:      getenv("GIN_MODE", "release"),
		OTELEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getenv("OTEL_SERVICE_NAME", "gorm-posts"),
	}

	var err error
	if cfg.DBConnectAttempt, err = getInt("DB_CONNECT_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.DBConnectAttempt < 1 {
		return nil, fmt.Errorf("DB_CONNECT_ATTEMPTS must be at least 1, got %d", cfg.DBConnectAttempt)
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", false); err != nil {
		return nil, err
	}
	if cfg.WireCompat, err = getBool("POSTS_WIRE_COMPAT", true); err != nil {
		return nil, err
	}

	switch cfg.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return nil, fmt.Errorf("DB_LOG_LEVEL must be one of silent, error, warn, info; got %q", cfg.DBLogLevel)
	}

	return cfg, nil
}

// UsesDevSecret reports whether no JWT_SECRET was configured.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

func getBool(k string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", k, err)
	}
	return b, nil
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
