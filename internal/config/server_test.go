package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Default log level mismatch: got %s, want info", cfg.LogLevel)
	}

	if cfg.MetricsEnabled {
		t.Errorf("Metrics should be disabled by default")
	}

	if cfg.MetricsPort != 9090 {
		t.Errorf("Default metrics port mismatch: got %d, want 9090", cfg.MetricsPort)
	}

	if len(cfg.VocabularyPaths) != 1 || cfg.VocabularyPaths[0] != "./vocabulary" {
		t.Errorf("Default vocabulary paths mismatch: got %v, want [./vocabulary]", cfg.VocabularyPaths)
	}

	if !cfg.Grammar.DevVersion {
		t.Errorf("Development grammar should be enabled by default")
	}

	if cfg.Elasticsearch.RefreshInterval != 60*time.Second {
		t.Errorf("Default refresh interval mismatch: got %v, want 60s", cfg.Elasticsearch.RefreshInterval)
	}

	if cfg.SchemaEnabled() {
		t.Errorf("Schema suggestions should be disabled without URL and API key")
	}
}

func TestLoadServerConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
metrics_enabled: true
metrics_port: 8080
grammar:
  dev_version: false
elasticsearch:
  url: http://localhost:9200
  api_key: secret
  refresh_interval: 5s
`)

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Log level mismatch: got %s, want debug", cfg.LogLevel)
	}

	if cfg.MetricsPort != 8080 {
		t.Errorf("Metrics port mismatch: got %d, want 8080", cfg.MetricsPort)
	}

	if cfg.Grammar.DevVersion {
		t.Errorf("Development grammar should be disabled")
	}

	if cfg.Elasticsearch.RefreshInterval != 5*time.Second {
		t.Errorf("Refresh interval mismatch: got %v, want 5s", cfg.Elasticsearch.RefreshInterval)
	}

	if !cfg.SchemaEnabled() {
		t.Errorf("Schema suggestions should be enabled")
	}
}

func TestLoadServerConfigEnvOverride(t *testing.T) {
	t.Setenv("ESQL_ELASTICSEARCH_API_KEY", "from-env")
	t.Setenv("ESQL_LOG_LEVEL", "warn")

	path := writeConfig(t, "elasticsearch:\n  url: http://es:9200\n")

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Elasticsearch.APIKey != "from-env" {
		t.Errorf("API key mismatch: got %q, want from-env", cfg.Elasticsearch.APIKey)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Log level mismatch: got %s, want warn", cfg.LogLevel)
	}
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	if _, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadServerConfig() should fail for a missing file")
	}
}

func TestWatchServerConfig(t *testing.T) {
	path := writeConfig(t, "log_level: info\n")

	changes := make(chan *ServerConfig, 4)
	cfg, err := WatchServerConfig(path, func(c *ServerConfig) { changes <- c }, nil)
	if err != nil {
		t.Fatalf("WatchServerConfig() failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("Initial log level mismatch: got %s, want info", cfg.LogLevel)
	}

	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.LogLevel == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not delivered")
		}
	}
}
