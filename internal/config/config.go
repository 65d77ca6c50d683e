/*
Package config handles loading, validating, and saving sales-pipeline configuration.

Configuration is stored in ~/.sales-pipeline.json by default. Files ending in
.yaml or .yml are read and written as YAML, everything else as JSON. Values
from the environment override the file.

Schema:
  {
    "server":    {"addr": ":8000", "readTimeoutSeconds": 15, ...},
    "storage":   {"dbPath": "sales.db"},
    "insight":   {"docsDir": "data/knowledge_docs", "mode": "semantic", ...},
    "journal":   {"path": "learning_log.jsonl"},
    "telemetry": {"endpoint": "", "serviceName": "sales-pipeline", "insecure": false},
    "logLevel":  "info"
  }
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the root configuration structure.
type Config struct {
	// Server configures the HTTP front end.
	Server ServerSettings `json:"server" yaml:"server"`

	// Storage configures the historical sales database.
	Storage StorageSettings `json:"storage" yaml:"storage"`

	// Insight configures the knowledge-document lookup.
	Insight InsightSettings `json:"insight" yaml:"insight"`

	// Journal configures the run log.
	Journal JournalSettings `json:"journal" yaml:"journal"`

	// Telemetry configures OTLP export. An empty endpoint disables it.
	Telemetry TelemetrySettings `json:"telemetry" yaml:"telemetry"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr                   string `json:"addr" yaml:"addr"`
	ReadTimeoutSeconds     int    `json:"readTimeoutSeconds" yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds    int    `json:"writeTimeoutSeconds" yaml:"writeTimeoutSeconds"`
	ShutdownTimeoutSeconds int    `json:"shutdownTimeoutSeconds" yaml:"shutdownTimeoutSeconds"`
}

// StorageSettings configures the SQLite database.
type StorageSettings struct {
	DBPath string `json:"dbPath" yaml:"dbPath"`
}

// InsightSettings configures the insight stage.
type InsightSettings struct {
	DocsDir        string `json:"docsDir" yaml:"docsDir"`
	Mode           string `json:"mode" yaml:"mode"`
	EmbeddingModel string `json:"embeddingModel,omitempty" yaml:"embeddingModel,omitempty"`
	OpenAIBaseURL  string `json:"openaiBaseUrl,omitempty" yaml:"openaiBaseUrl,omitempty"`

	// Source limits keyword lookups to one document, e.g. "info.txt".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// APIKey is only ever read from the environment.
	APIKey string `json:"-" yaml:"-"`
}

// JournalSettings configures the journal file.
type JournalSettings struct {
	Path string `json:"path" yaml:"path"`
}

// TelemetrySettings configures OpenTelemetry export.
type TelemetrySettings struct {
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	Insecure    bool   `json:"insecure,omitempty" yaml:"insecure,omitempty"`
}

// Insight lookup modes accepted by Validate.
const (
	ModeSemantic = "semantic"
	ModeKeyword  = "keyword"
	ModeHybrid   = "hybrid"
)

// NewConfig creates a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Addr:                   ":8000",
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Storage: StorageSettings{
			DBPath: "sales.db",
		},
		Insight: InsightSettings{
			DocsDir: filepath.Join("data", "knowledge_docs"),
			Mode:    ModeSemantic,
		},
		Journal: JournalSettings{
			Path: "learning_log.jsonl",
		},
		Telemetry: TelemetrySettings{
			ServiceName: "sales-pipeline",
		},
		LogLevel: "info",
	}
}

// GetDefaultConfigPath returns the path to ~/.sales-pipeline.json
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".sales-pipeline.json"), nil
}

// Load reads the configuration from the default path.
// A missing default file is not an error; defaults are returned.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return NewConfig(), nil
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		if IsNotFound(err) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve loads path (or the default file when path is empty), applies
// environment overrides and validates the result.
func Resolve(path string, getenv func(string) string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if path == "" {
		cfg, err = Load()
	} else {
		cfg, err = LoadFrom(path)
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(getenv)

	if err := cfg.Validate(); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Check the config file and SALES_PIPELINE_* environment variables",
		}
	}
	return cfg, nil
}

// Env variable names that override file settings.
const (
	EnvAddr          = "SALES_PIPELINE_ADDR"
	EnvDBPath        = "SALES_PIPELINE_DB"
	EnvDocsDir       = "SALES_PIPELINE_DOCS"
	EnvJournalPath   = "SALES_PIPELINE_JOURNAL"
	EnvInsightMode   = "SALES_PIPELINE_INSIGHT_MODE"
	EnvInsightSource = "SALES_PIPELINE_INSIGHT_SOURCE"
	EnvLogLevel      = "SALES_PIPELINE_LOG_LEVEL"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBase    = "OPENAI_BASE_URL"
	EnvOTLPEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName   = "OTEL_SERVICE_NAME"
)

// ApplyEnv overrides settings from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Addr, EnvAddr)
	set(&c.Storage.DBPath, EnvDBPath)
	set(&c.Insight.DocsDir, EnvDocsDir)
	set(&c.Journal.Path, EnvJournalPath)
	set(&c.Insight.Mode, EnvInsightMode)
	set(&c.Insight.Source, EnvInsightSource)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.Insight.APIKey, EnvOpenAIKey)
	set(&c.Insight.OpenAIBaseURL, EnvOpenAIBase)
	set(&c.Telemetry.Endpoint, EnvOTLPEndpoint)
	set(&c.Telemetry.ServiceName, EnvServiceName)

	c.Insight.Mode = strings.ToLower(c.Insight.Mode)
}

// ReadTimeout returns the server read timeout.
func (s ServerSettings) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (s ServerSettings) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget.
func (s ServerSettings) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// isYAML reports whether path should be encoded as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
