package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates runtime configuration for the Launchpad API.
type Config struct {
	Environment    string
	HTTPPort       int
	DatabaseURL    string
	DataStore      string
	LogLevel       string
	AllowedOrigins []string
	FrontendURL    string
	SessionTTL     time.Duration

	// Hosted identity provider (OIDC authorization code flow).
	OIDCIssuerURL      string
	OIDCClientID       string
	OIDCClientSecret   string
	OIDCRedirectURL    string
	AllowedAuthDomains []string
	AllowedAuthEmails  []string
}

// Load reads configuration from environment variables with sensible defaults for local development.
func Load() (Config, error) {
	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/launchpad_database_url")
	if err != nil {
		return Config{}, err
	}

	clientSecret, err := getEnvOrFile("AUTH_OIDC_CLIENT_SECRET", "/run/secrets/launchpad_oidc_client_secret")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        databaseURL,
		DataStore:          strings.ToLower(getEnv("DATA_STORE", "memory")),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:     parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
		FrontendURL:        strings.TrimSuffix(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		OIDCIssuerURL:      strings.TrimSuffix(getEnv("AUTH_OIDC_ISSUER_URL", "https://accounts.google.com"), "/"),
		OIDCClientID:       strings.TrimSpace(getEnv("AUTH_OIDC_CLIENT_ID", "")),
		OIDCClientSecret:   strings.TrimSpace(clientSecret),
		OIDCRedirectURL:    getEnv("AUTH_OIDC_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
		AllowedAuthDomains: parseCSV(getEnv("AUTH_ALLOWED_DOMAINS", "")),
		AllowedAuthEmails:  parseCSV(getEnv("AUTH_ALLOWED_EMAILS", "")),
	}

	portValue := getEnv("PORT", getEnv("HTTP_PORT", "8080"))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	ttlValue := getEnv("SESSION_TTL", "12h")
	ttl, err := time.ParseDuration(ttlValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q: %w", ttlValue, err)
	}
	cfg.SessionTTL = ttl

	if cfg.DataStore == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
	}

	if !cfg.IsDevelopment() {
		if cfg.OIDCClientID == "" {
			return Config{}, fmt.Errorf("AUTH_OIDC_CLIENT_ID is required outside development")
		}
		if cfg.OIDCClientSecret == "" {
			return Config{}, fmt.Errorf("AUTH_OIDC_CLIENT_SECRET is required outside development")
		}
		for _, origin := range cfg.AllowedOrigins {
			if origin == "*" {
				return Config{}, fmt.Errorf("wildcard ALLOWED_ORIGINS is not permitted outside development")
			}
		}
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repositories should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

// IsDevelopment returns true when running with relaxed local-dev rules.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AuthEnabled reports whether the hosted identity provider is configured.
// When false (local dev only) the sign-in endpoints are disabled.
func (c Config) AuthEnabled() bool {
	return c.OIDCClientID != "" && c.OIDCClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
