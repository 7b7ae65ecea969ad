package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aviatehq/aviate/config"
)

func writeAndLoad(t *testing.T, content string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  host: "127.0.0.1"
  port: 9090

geoip:
  base_url: "https://geo.example.com"
  timeout: 2s

cache:
  mode: "sqlite"
  ttl: 30m

llm:
  model: "gpt-4o"
  max_tokens: 512

database:
  dsn: ":memory:"
`

	cfg := writeAndLoad(t, content)

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Host = %s, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.GeoIP.BaseURL != "https://geo.example.com" {
		t.Errorf("GeoIP.BaseURL = %s", cfg.GeoIP.BaseURL)
	}
	if cfg.GeoIP.Timeout != 2*time.Second {
		t.Errorf("GeoIP.Timeout = %v, want 2s", cfg.GeoIP.Timeout)
	}
	if cfg.Cache.Mode != "sqlite" || cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.LLM.Model != "gpt-4o" || cfg.LLM.MaxTokens != 512 {
		t.Errorf("LLM = %+v", cfg.LLM)
	}
	if cfg.Database.DSN != ":memory:" {
		t.Errorf("Database.DSN = %s", cfg.Database.DSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg := writeAndLoad(t, "{}\n")

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.GeoIP.BaseURL != "https://ipapi.co" {
		t.Errorf("default GeoIP.BaseURL = %s", cfg.GeoIP.BaseURL)
	}
	if cfg.GeoIP.Timeout != 5*time.Second {
		t.Errorf("default GeoIP.Timeout = %v, want 5s", cfg.GeoIP.Timeout)
	}
	if cfg.Cache.Mode != "memory" || cfg.Cache.TTL != time.Hour {
		t.Errorf("default Cache = %+v", cfg.Cache)
	}
	if cfg.Billing.Mode != "none" {
		t.Errorf("default Billing.Mode = %s, want none", cfg.Billing.Mode)
	}
	if cfg.Database.DSN != "aviate.db" {
		t.Errorf("default Database.DSN = %s", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("default Logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default Metrics.Path = %s", cfg.Metrics.Path)
	}
	if cfg.Auth.Expiration != 24*time.Hour {
		t.Errorf("default Auth.Expiration = %v", cfg.Auth.Expiration)
	}
}

func TestLoad_InvalidCacheMode(t *testing.T) {
	content := `
cache:
  mode: "redis"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(content), 0o644)
	if _, err := config.Load(path); err == nil {
		t.Error("expected validation error for cache.mode")
	}
}

func TestLoad_StripeRequiresKey(t *testing.T) {
	content := `
billing:
  mode: "stripe"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte(content), 0o644)
	if _, err := config.Load(path); err == nil {
		t.Error("expected validation error when stripe mode has no key")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AVIATE_SERVER_PORT", "9999")
	t.Setenv("AVIATE_CACHE_TTL", "15m")
	t.Setenv("AVIATE_LOG_LEVEL", "debug")

	cfg := writeAndLoad(t, "server:\n  port: 8081\n")

	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, env override must win over file", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AVIATE_GEOIP_BASE_URL", "https://geo.internal")
	t.Setenv("AVIATE_LLM_API_KEY", "sk-test")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.GeoIP.BaseURL != "https://geo.internal" {
		t.Errorf("GeoIP.BaseURL = %s", cfg.GeoIP.BaseURL)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("LLM.APIKey = %s", cfg.LLM.APIKey)
	}
}

func TestLoadWithFallback_MissingFile(t *testing.T) {
	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.Server.Port)
	}
}
