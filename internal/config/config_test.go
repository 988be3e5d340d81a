package config

import (
	"os"
	"testing"
	"time"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "PORT", "STORE_DRIVER", "TOKEN_TTL")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.StoreDriver != "memory" || cfg.TokenTTL != 720*time.Hour {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.StoreDSN() != "" {
		t.Errorf("memory dsn = %q", cfg.StoreDSN())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/p.db")
	t.Setenv("ALLOWED_ORIGINS", "https://samui.app, http://localhost:5173 ,")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.StoreDSN() != "/tmp/p.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	got := cfg.Origins()
	want := []string{"samui.app", "localhost:5173"}
	if len(got) != len(want) {
		t.Fatalf("Origins = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Origins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	if _, err := Load(); err == nil {
		t.Error("expected error")
	}
}
