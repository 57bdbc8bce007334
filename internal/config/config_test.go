package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv removes every COMPASS_* variable for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "COMPASS_") {
			key := strings.SplitN(kv, "=", 2)[0]
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_DEV_MODE", "true")
	t.Setenv("COMPASS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Session.MaxSessions != 100 {
		t.Errorf("max_sessions = %d, want 100", cfg.Session.MaxSessions)
	}
	if cfg.Session.DefaultUseCases != 8 {
		t.Errorf("default_use_cases = %d, want 8", cfg.Session.DefaultUseCases)
	}
	if time.Duration(cfg.Session.IdleTTL) != 24*time.Hour {
		t.Errorf("idle_ttl = %v, want 24h", time.Duration(cfg.Session.IdleTTL))
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log = %s/%s, want info/json", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoadFromFile_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_DEV_MODE", "true")

	path := filepath.Join(t.TempDir(), "compass.yaml")
	content := `
server:
  port: 9090
  read_timeout: 5s
session:
  max_sessions: 3
  default_use_cases: 4
  idle_ttl: 30m
  sweep_interval: 1m
log:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if time.Duration(cfg.Server.ReadTimeout) != 5*time.Second {
		t.Errorf("read_timeout = %v, want 5s", time.Duration(cfg.Server.ReadTimeout))
	}
	if cfg.Session.MaxSessions != 3 {
		t.Errorf("max_sessions = %d, want 3", cfg.Session.MaxSessions)
	}
	if cfg.Session.DefaultUseCases != 4 {
		t.Errorf("default_use_cases = %d, want 4", cfg.Session.DefaultUseCases)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %s/%s, want debug/text", cfg.Log.Level, cfg.Log.Format)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_DEV_MODE", "true")

	path := filepath.Join(t.TempDir(), "compass.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("COMPASS_CONFIG_PATH", path)
	t.Setenv("COMPASS_PORT", "7070")
	t.Setenv("COMPASS_SESSION_IDLE_TTL", "45m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070 (env wins)", cfg.Server.Port)
	}
	if time.Duration(cfg.Session.IdleTTL) != 45*time.Minute {
		t.Errorf("idle_ttl = %v, want 45m", time.Duration(cfg.Session.IdleTTL))
	}
}

func TestLoad_RequiresAPIKeyOutsideDevMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load without COMPASS_API_KEY should fail")
	}

	t.Setenv("COMPASS_API_KEY", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with API key failed: %v", err)
	}
	if cfg.Auth.APIKey != "secret" {
		t.Errorf("api key = %q, want secret", cfg.Auth.APIKey)
	}
}

func TestLoad_RejectsUseCaseCountOutOfBounds(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_DEV_MODE", "true")
	t.Setenv("COMPASS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("COMPASS_DEFAULT_USE_CASES", "1")

	if _, err := Load(); err == nil {
		t.Fatal("Load with default_use_cases=1 should fail")
	}
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPASS_DEV_MODE", "true")

	path := filepath.Join(t.TempDir(), "compass.yaml")
	if err := os.WriteFile(path, []byte("server:\n  read_timeout: nonsense\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("invalid duration should fail to parse")
	}
}
