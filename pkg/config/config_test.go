package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Scan.MaxWorkers != 10 || c.Scan.BatchSize != 20 {
		t.Fatalf("unexpected scan defaults %+v", c.Scan)
	}
	if c.Cache.Backend != "memory" {
		t.Fatalf("unexpected cache backend %s", c.Cache.Backend)
	}
	if c.Cache.TTL.FullAnalysis != time.Hour {
		t.Fatalf("unexpected full_analysis ttl %v", c.Cache.TTL.FullAnalysis)
	}
	if c.Scan.Params.RSIWindow != 14 {
		t.Fatalf("stage params defaults not applied: %+v", c.Scan.Params)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "environment: test\ncache:\n  backend: etcd\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestLoadRejectsHTTPModeWithoutURL(t *testing.T) {
	path := writeConfig(t, "environment: test\nproviders:\n  mode: http\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for missing base_url")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	path := writeConfig(t, "environment: test\nkafka:\n  enabled: true\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for missing brokers")
	}
}

func TestLoadWithEnvOverride(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	t.Setenv("LOG_LEVEL", "debug")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Logging.Level != "debug" {
		t.Fatalf("env override not applied, level=%s", c.Logging.Level)
	}
}
