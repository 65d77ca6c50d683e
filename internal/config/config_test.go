package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Server.Addr != ":8000" {
		t.Errorf("expected default addr :8000, got %s", cfg.Server.Addr)
	}
	if cfg.Storage.DBPath != "sales.db" {
		t.Errorf("expected default db path sales.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Insight.DocsDir != filepath.Join("data", "knowledge_docs") {
		t.Errorf("unexpected docs dir: %s", cfg.Insight.DocsDir)
	}
	if cfg.Insight.Mode != ModeSemantic {
		t.Errorf("expected semantic mode, got %s", cfg.Insight.Mode)
	}
	if cfg.Journal.Path != "learning_log.jsonl" {
		t.Errorf("unexpected journal path: %s", cfg.Journal.Path)
	}
	if cfg.Server.ReadTimeout() != 15*time.Second || cfg.Server.WriteTimeout() != 30*time.Second {
		t.Errorf("unexpected timeouts: %v %v", cfg.Server.ReadTimeout(), cfg.Server.WriteTimeout())
	}
	if cfg.Server.ShutdownTimeout() != 10*time.Second {
		t.Errorf("unexpected shutdown timeout: %v", cfg.Server.ShutdownTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvAddr:          "127.0.0.1:9090",
		EnvDBPath:        "/var/lib/sales.db",
		EnvDocsDir:       "/srv/docs",
		EnvJournalPath:   "/var/log/journal.jsonl",
		EnvInsightMode:   " KEYWORD ",
		EnvInsightSource: "info.txt",
		EnvLogLevel:      "debug",
		EnvOpenAIKey:     "sk-test",
		EnvOpenAIBase:    "http://localhost:11434/v1",
		EnvOTLPEndpoint:  "localhost:4318",
		EnvServiceName:   "sales-test",
	}

	cfg := NewConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("addr not overridden: %s", cfg.Server.Addr)
	}
	if cfg.Storage.DBPath != "/var/lib/sales.db" {
		t.Errorf("db path not overridden: %s", cfg.Storage.DBPath)
	}
	if cfg.Insight.DocsDir != "/srv/docs" {
		t.Errorf("docs dir not overridden: %s", cfg.Insight.DocsDir)
	}
	if cfg.Journal.Path != "/var/log/journal.jsonl" {
		t.Errorf("journal path not overridden: %s", cfg.Journal.Path)
	}
	if cfg.Insight.Mode != ModeKeyword {
		t.Errorf("expected normalised keyword mode, got %q", cfg.Insight.Mode)
	}
	if cfg.Insight.Source != "info.txt" {
		t.Errorf("insight source not overridden: %q", cfg.Insight.Source)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level not overridden: %s", cfg.LogLevel)
	}
	if cfg.Insight.APIKey != "sk-test" || cfg.Insight.OpenAIBaseURL != "http://localhost:11434/v1" {
		t.Errorf("openai settings not overridden: %+v", cfg.Insight)
	}
	if cfg.Telemetry.Endpoint != "localhost:4318" || cfg.Telemetry.ServiceName != "sales-test" {
		t.Errorf("telemetry not overridden: %+v", cfg.Telemetry)
	}
}

func TestApplyEnvIgnoresBlankValues(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyEnv(func(string) string { return "   " })

	if cfg.Server.Addr != ":8000" || cfg.Insight.Mode != ModeSemantic {
		t.Errorf("blank env values should not override defaults: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid keyword", func(c *Config) { c.Insight.Mode = ModeKeyword }, ""},
		{"valid hybrid", func(c *Config) { c.Insight.Mode = ModeHybrid }, ""},
		{"unknown mode", func(c *Config) { c.Insight.Mode = "fuzzy" }, "insight.mode"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"empty db", func(c *Config) { c.Storage.DBPath = " " }, "storage.dbPath"},
		{"empty docs", func(c *Config) { c.Insight.DocsDir = "" }, "insight.docsDir"},
		{"empty journal", func(c *Config) { c.Journal.Path = "" }, "journal.path"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeoutSeconds = 0 }, "readTimeoutSeconds"},
		{"negative write timeout", func(c *Config) { c.Server.WriteTimeoutSeconds = -1 }, "writeTimeoutSeconds"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeoutSeconds = 0 }, "shutdownTimeoutSeconds"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := NewConfig()
	cfg.Insight.Mode = "nope"
	cfg.Storage.DBPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "insight.mode") || !strings.Contains(err.Error(), "storage.dbPath") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
