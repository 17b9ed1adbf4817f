package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redis.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %s", cfg.Redis.SessionTTL)
	}
	if cfg.AI.MinConfidence != 0.6 || cfg.AI.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected AI defaults: %+v", cfg.AI)
	}
	if cfg.Booking.Currency != "INR" || cfg.Booking.MaxAttempts != 0 {
		t.Fatalf("unexpected booking defaults: %+v", cfg.Booking)
	}
	if cfg.IsProduction() {
		t.Fatal("default env must not be production")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SWIFTCAB_HTTP_ADDR", ":9090")
	t.Setenv("SWIFTCAB_MAX_ATTEMPTS", "5")
	t.Setenv("SWIFTCAB_CURRENCY", "usd")
	t.Setenv("SWIFTCAB_SESSION_TTL", "5m")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("GOOGLE_MAPS_API_KEY", "m-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Booking.MaxAttempts != 5 || cfg.Booking.Currency != "USD" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Redis.SessionTTL != 5*time.Minute {
		t.Fatalf("SessionTTL = %s", cfg.Redis.SessionTTL)
	}
	if cfg.AI.GeminiKey != "g-key" || cfg.Maps.APIKey != "m-key" {
		t.Fatalf("provider keys not read: %+v %+v", cfg.AI, cfg.Maps)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := "timezone: UTC\nai_min_confidence: 0.8\nredis_addr: localhost:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Booking.Timezone != "UTC" || cfg.AI.MinConfidence != 0.8 || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("file not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SWIFTCAB_TIMEZONE", "Mars/Olympus"},
		{"SWIFTCAB_AI_MIN_CONFIDENCE", "1.5"},
		{"SWIFTCAB_MAX_ATTEMPTS", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
