package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the core runtime configuration for the service.
// Values are sourced from environment variables. The API key and all
// PostgreSQL settings are required; the process refuses to start
// without them. See .env.example.
type Config struct {
	// APIKey is the shared secret that gates the whole API surface.
	APIKey string

	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string

	ListenAddr string

	// RoutePrefix is the path prefix the service routes are mounted
	// under (no trailing slash).
	RoutePrefix string

	// UserServicesLimit is the maximum number of service records a
	// single user may own at the same time.
	UserServicesLimit int
}

// Load reads configuration from environment variables. It returns an
// error naming the first missing or malformed required variable.
func Load() (*Config, error) {
	cfg := &Config{
		APIKey:           os.Getenv("API_KEY"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),

		ListenAddr:        getenv("APP_LISTEN_ADDR", ":8080"),
		RoutePrefix:       strings.TrimRight(getenv("APP_ROUTE_PREFIX", "/services"), "/"),
		UserServicesLimit: 3,
	}

	required := []struct {
		name, value string
	}{
		{"API_KEY", cfg.APIKey},
		{"POSTGRES_USER", cfg.PostgresUser},
		{"POSTGRES_PASSWORD", cfg.PostgresPassword},
		{"POSTGRES_HOST", cfg.PostgresHost},
		{"POSTGRES_PORT", os.Getenv("POSTGRES_PORT")},
		{"POSTGRES_DB", cfg.PostgresDB},
	}
	for _, v := range required {
		if v.value == "" {
			return nil, fmt.Errorf("%s environment variable is required", v.name)
		}
	}

	port, err := strconv.Atoi(os.Getenv("POSTGRES_PORT"))
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("POSTGRES_PORT must be a positive integer")
	}
	cfg.PostgresPort = port

	if v := os.Getenv("APP_USER_SERVICES_LIMIT"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			cfg.UserServicesLimit = limit
		}
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
