package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[network]
bind_address = "127.0.0.1:9000"
write_timeout = "3s"

[charge]
month_card_source = "fixture"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network.BindAddress != "127.0.0.1:9000" {
		t.Fatalf("bind address = %q", cfg.Network.BindAddress)
	}
	if cfg.Network.WriteTimeout != 3*time.Second {
		t.Fatalf("write timeout = %v", cfg.Network.WriteTimeout)
	}
	if cfg.Network.OutQueueSize != 256 {
		t.Fatalf("out queue size should keep default, got %d", cfg.Network.OutQueueSize)
	}
	if cfg.Charge.MonthCardSource != MonthCardFromFixture {
		t.Fatalf("month card source = %q", cfg.Charge.MonthCardSource)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatal("start time not set")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[database]
dsn = "postgres://file"
`)
	t.Setenv("SONETTO_DB_DSN", "postgres://env")
	t.Setenv("SONETTO_DB_DRIVER", "memory")
	t.Setenv("SONETTO_JWT_SECRET", "s3cret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Fatalf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.Driver != "memory" {
		t.Fatalf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"driver", "[database]\ndriver = \"mysql\"\n"},
		{"format", "[logging]\nformat = \"xml\"\n"},
		{"month card source", "[charge]\nmonth_card_source = \"both\"\n"},
		{"queue size", "[network]\nin_queue_size = 0\n"},
		{"reset hour", "[server]\ndaily_reset_hour = 24\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
