package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks the configuration for values the pipeline cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	switch c.Insight.Mode {
	case ModeSemantic, ModeKeyword, ModeHybrid:
	default:
		errs = append(errs, fmt.Errorf("insight.mode must be one of semantic, keyword, hybrid (got %q)", c.Insight.Mode))
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Storage.DBPath) == "" {
		errs = append(errs, errors.New("storage.dbPath is required"))
	}
	if strings.TrimSpace(c.Insight.DocsDir) == "" {
		errs = append(errs, errors.New("insight.docsDir is required"))
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		errs = append(errs, errors.New("journal.path is required"))
	}

	if c.Server.ReadTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.readTimeoutSeconds must be positive"))
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.writeTimeoutSeconds must be positive"))
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("server.shutdownTimeoutSeconds must be positive"))
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("logLevel must be one of debug, info, warn, error (got %q)", c.LogLevel))
	}

	return errors.Join(errs...)
}
