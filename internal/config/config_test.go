package config

import (
	"errors"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vidaplena")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("FETCH_CHUNK_SIZE", "0")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected postgres driver, got %q", cfg.StoreDriver)
	}
	if cfg.FetchChunkSize != 500 {
		t.Fatalf("expected chunk size fallback 500, got %d", cfg.FetchChunkSize)
	}
	if cfg.ReportRateLimit != 30 || cfg.ReportRateWindowSeconds != 60 {
		t.Fatalf("unexpected rate defaults: %d/%d", cfg.ReportRateLimit, cfg.ReportRateWindowSeconds)
	}
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "Postgres")

	if _, err := LoadConfig(); !errors.Is(err, ErrMissingDatabaseURL) {
		t.Fatalf("expected ErrMissingDatabaseURL, got %v", err)
	}
}

func TestLoadConfig_SQLiteWithoutURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", " SQLite ")
	t.Setenv("SQLITE_PATH", "file:test.db")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StoreDriver != StoreDriverSQLite || cfg.SQLitePath != "file:test.db" {
		t.Fatalf("unexpected sqlite config: %+v", cfg)
	}
}
