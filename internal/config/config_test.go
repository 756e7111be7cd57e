package config

import (
	"os"
	"testing"
	"time"
)

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	original, existed := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
	t.Cleanup(func() {
		if !existed {
			_ = os.Unsetenv(key)
			return
		}
		_ = os.Setenv(key, original)
	})
}

func TestStoreDriverDefaultsToPostgres(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER")

	cfg := New()
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected default store driver %q, got %q", StoreDriverPostgres, cfg.StoreDriver)
	}
}

func TestStoreDriverFallsBackOnUnknownValue(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")

	cfg := New()
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("expected unknown driver to fall back to postgres, got %q", cfg.StoreDriver)
	}
}

func TestStoreDriverAcceptsMongo(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Mongo ")

	cfg := New()
	if cfg.StoreDriver != StoreDriverMongo {
		t.Fatalf("expected mongo driver, got %q", cfg.StoreDriver)
	}
}

func TestDurationsParseAndFallBack(t *testing.T) {
	t.Setenv("EDITOR_SESSION_TTL", "30m")
	t.Setenv("LAYOUT_CACHE_TTL", "not-a-duration")

	cfg := New()
	if cfg.EditorSessionTTL != 30*time.Minute {
		t.Fatalf("expected 30m session ttl, got %s", cfg.EditorSessionTTL)
	}
	if cfg.LayoutCacheTTL != 10*time.Minute {
		t.Fatalf("expected default cache ttl on parse failure, got %s", cfg.LayoutCacheTTL)
	}
}

func TestCORSOriginsAreTrimmed(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg := New()
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
	if cfg.CORSOrigins[0] != "https://a.example" || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}
