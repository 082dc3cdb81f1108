package config

import (
	"errors"
	"strings"
	"testing"
)

func TestMissingKeepsRequestedOrder(t *testing.T) {
	cfg := &Config{Notion: NotionConfig{Token: "tok", TicketsDB: "  "}}

	got := cfg.Missing(NotionToken, FreshdeskAPIKey, FreshdeskDomain, EngagementsDB, TicketsDB)
	want := []string{FreshdeskAPIKey, FreshdeskDomain, EngagementsDB, TicketsDB}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
}

func TestRequire(t *testing.T) {
	cfg := &Config{
		Notion:    NotionConfig{Token: "tok", EngagementsDB: "a", TicketsDB: "b"},
		Freshdesk: FreshdeskConfig{APIKey: "key", Domain: "acme.freshdesk.com"},
	}
	if err := cfg.Require(NotionToken, FreshdeskAPIKey, FreshdeskDomain, EngagementsDB, TicketsDB); err != nil {
		t.Fatalf("Require: %v", err)
	}

	err := cfg.Require(AuthJWTSecret, PostgresDSN)
	var missing *MissingSettingsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSettingsError, got %v", err)
	}
	if len(missing.Names) != 2 || missing.Names[0] != AuthJWTSecret {
		t.Fatalf("names = %v", missing.Names)
	}
	if !strings.Contains(err.Error(), "AUTH_JWT_SECRET, POSTGRES_DSN") {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestLoadDerivesFreshdeskBaseURL(t *testing.T) {
	t.Setenv(FreshdeskDomain, "acme.freshdesk.com")
	t.Setenv("FRESHDESK_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Freshdesk.BaseURL != "https://acme.freshdesk.com" {
		t.Fatalf("BaseURL = %q", cfg.Freshdesk.BaseURL)
	}
	if cfg.Freshdesk.PerPage != 100 {
		t.Fatalf("PerPage = %d", cfg.Freshdesk.PerPage)
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric REDIS_DB")
	}
}
