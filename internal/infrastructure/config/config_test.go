package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/societyledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.TransactionStore != config.StoreMongo {
		t.Fatalf("expected mongo journal by default, got %s", cfg.TransactionStore)
	}

	if cfg.CacheTTL != 10*time.Minute {
		t.Fatalf("expected default cache TTL of 10m, got %s", cfg.CacheTTL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TRANSACTION_STORE", "postgres")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("DEFAULT_SOCIETY", "greenview")

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.MongoURI != "mongodb://example" {
		t.Fatalf("expected custom mongo URI, got %s", cfg.MongoURI)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.TransactionStore != config.StorePostgres {
		t.Fatalf("expected postgres journal, got %s", cfg.TransactionStore)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.DefaultSociety != "greenview" {
		t.Fatalf("expected default society, got %q", cfg.DefaultSociety)
	}
}

func TestLoadDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LEDGER_CATALOG_FILE=/etc/ledger/catalog.yaml\nHTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// the real environment wins over the file
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("LEDGER_CATALOG_FILE", "")
	os.Unsetenv("LEDGER_CATALOG_FILE")

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LedgerCatalogFile != "/etc/ledger/catalog.yaml" {
		t.Fatalf("expected catalog file from dotenv, got %q", cfg.LedgerCatalogFile)
	}

	if cfg.HTTPPort != "9191" {
		t.Fatalf("expected environment to override dotenv, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "invalid duration", env: map[string]string{"HTTP_READ_TIMEOUT": "not-a-duration"}},
		{name: "unknown journal", env: map[string]string{"TRANSACTION_STORE": "sqlite"}},
		{name: "auth without secret", env: map[string]string{"AUTH_ENABLED": "true", "JWT_SECRET": ""}},
		{name: "negative burst", env: map[string]string{"RATE_LIMIT_BURST": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
