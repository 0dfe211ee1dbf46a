package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9999"
auth:
  jwt_secret: "s3cret"
  token_ttl_min: 60
storage:
  path: "/tmp/test.db"
models:
  dir: "/opt/models"
intervals:
  oil_change_km: 12000
  general_check_days: 90
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Auth.TokenTTLMin != 60 {
		t.Errorf("ttl = %d", cfg.Auth.TokenTTLMin)
	}
	if cfg.Intervals.OilChangeKm != 12000 || cfg.Intervals.GeneralCheckDays != 90 {
		t.Errorf("intervals = %+v", cfg.Intervals)
	}
	if !cfg.Metrics.PrometheusEnabled || cfg.Metrics.PrometheusPort != "9090" {
		t.Errorf("metrics defaults not applied: %+v", cfg.Metrics)
	}
}

func TestLoadJSONWithDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"auth": {"jwt_secret": "s"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Storage.Path != "autocare.db" || cfg.Models.Dir != "models" {
		t.Errorf("storage defaults: %+v %+v", cfg.Storage, cfg.Models)
	}
	if cfg.Auth.TokenTTLMin != 24*60 {
		t.Errorf("default ttl = %d", cfg.Auth.TokenTTLMin)
	}
	if cfg.MQTT.Topic == "" {
		t.Error("mqtt topic default missing")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeFile(t, "config.yaml", `auth:
  jwt_secret: "from-file"
`)
	t.Setenv("AUTOCARE_AUTH__JWT_SECRET", "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt_secret = %q, want env override", cfg.Auth.JWTSecret)
	}
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	path := writeFile(t, "config.yaml", `server:
  addr: ":8080"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "config.toml", `x = 1`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected format error")
	}
}

func TestLoadRejectsEnabledMQTTWithoutBroker(t *testing.T) {
	path := writeFile(t, "config.yaml", `auth:
  jwt_secret: "s"
mqtt:
  enabled: true
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}
