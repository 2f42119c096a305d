package config

import (
	"fmt"
	"net/url"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Server validation
	if cfg.Server.URL == "" {
		issues = append(issues, ValidationIssue{
			Path:    "server.url",
			Message: "server url is required",
		})
	} else if u, err := url.Parse(cfg.Server.URL); err != nil {
		issues = append(issues, ValidationIssue{
			Path:    "server.url",
			Message: "invalid url: " + err.Error(),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, ValidationIssue{
			Path:    "server.url",
			Message: fmt.Sprintf("scheme must be http or https, got %q", u.Scheme),
		})
	}

	if cfg.Server.RequestTimeoutMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "server.requestTimeoutMs",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Server.RequestTimeoutMs),
		})
	}

	// Sync validation
	if cfg.Sync.ReconnectMinMs < 0 || cfg.Sync.ReconnectMaxMs < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "sync",
			Message: "reconnect delays must be non-negative",
		})
	} else if cfg.Sync.ReconnectMaxMs > 0 && cfg.Sync.ReconnectMinMs > cfg.Sync.ReconnectMaxMs {
		issues = append(issues, ValidationIssue{
			Path:    "sync.reconnectMinMs",
			Message: fmt.Sprintf("must not exceed reconnectMaxMs (%d > %d)", cfg.Sync.ReconnectMinMs, cfg.Sync.ReconnectMaxMs),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.ConsoleStyle),
		})
	}

	// Hooks validation
	for path, entries := range map[string][]HookEntry{
		"hooks.sessionReceived":   cfg.Hooks.SessionReceived,
		"hooks.sessionCompleted":  cfg.Hooks.SessionCompleted,
		"hooks.sessionCancelled":  cfg.Hooks.SessionCancelled,
		"hooks.responseSubmitted": cfg.Hooks.ResponseSubmitted,
	} {
		for i, entry := range entries {
			if entry.Command == "" {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].command", path, i),
					Message: "command is required",
				})
			}
			if entry.Timeout < 0 {
				issues = append(issues, ValidationIssue{
					Path:    fmt.Sprintf("%s[%d].timeout", path, i),
					Message: "timeout must be non-negative",
				})
			}
		}
	}

	return issues
}
