package config

import (
	"strings"
	"testing"
)

func TestLoadAllowsEmptyOIDCInDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_OIDC_CLIENT_ID", "")
	t.Setenv("AUTH_OIDC_CLIENT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.AuthEnabled() {
		t.Fatal("expected auth to be disabled without provider credentials")
	}
}

func TestLoadRequiresOIDCOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_OIDC_CLIENT_ID", "")
	t.Setenv("AUTH_OIDC_CLIENT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when OIDC config missing outside development")
	}
	if !strings.Contains(err.Error(), "AUTH_OIDC_CLIENT_ID is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadAcceptsOIDCOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_OIDC_CLIENT_ID", "client-id")
	t.Setenv("AUTH_OIDC_CLIENT_SECRET", "client-secret")
	t.Setenv("AUTH_ALLOWED_DOMAINS", "example.com")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.OIDCClientID != "client-id" {
		t.Fatalf("expected client ID to be preserved, got %q", cfg.OIDCClientID)
	}
	if !cfg.AuthEnabled() {
		t.Fatal("expected AuthEnabled() to return true")
	}
	if len(cfg.AllowedAuthDomains) != 1 || cfg.AllowedAuthDomains[0] != "example.com" {
		t.Fatalf("unexpected allowed domains: %v", cfg.AllowedAuthDomains)
	}
}

func TestLoadRejectsWildcardOriginsOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("AUTH_OIDC_CLIENT_ID", "client-id")
	t.Setenv("AUTH_OIDC_CLIENT_SECRET", "client-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://example.com,*")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for wildcard origins outside development")
	}
}

func TestLoadRequiresDatabaseURLForPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "8080")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when postgres store has no DATABASE_URL")
	}
}

func TestLoadRejectsInvalidSessionTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_TTL", "bogus")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid SESSION_TTL")
	}
}

func TestLoadParsesSessionTTL(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.SessionTTL.Minutes() != 30 {
		t.Fatalf("expected 30m TTL, got %s", cfg.SessionTTL)
	}
}
