package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuePaths(issues []ValidationIssue) []string {
	paths := make([]string, len(issues))
	for i, issue := range issues {
		paths[i] = issue.Path
	}
	return paths
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_ServerURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{"empty", "", false},
		{"http", "http://127.0.0.1:8096", true},
		{"https", "https://hq.example.com", true},
		{"bad scheme", "ftp://x", false},
		{"garbage", "://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Server.URL = tt.url
			issues := Validate(&cfg)
			if tt.ok {
				assert.Empty(t, issues)
			} else {
				require.NotEmpty(t, issues)
				assert.Contains(t, issuePaths(issues), "server.url")
			}
		})
	}
}

func TestValidate_NegativeTimeout(t *testing.T) {
	cfg := Defaults()
	cfg.Server.RequestTimeoutMs = -1

	issues := Validate(&cfg)
	assert.Contains(t, issuePaths(issues), "server.requestTimeoutMs")
}

func TestValidate_ReconnectDelays(t *testing.T) {
	cfg := Defaults()
	cfg.Sync.ReconnectMinMs = 5000
	cfg.Sync.ReconnectMaxMs = 1000

	issues := Validate(&cfg)
	assert.Contains(t, issuePaths(issues), "sync.reconnectMinMs")

	cfg.Sync.ReconnectMinMs = -1
	issues = Validate(&cfg)
	assert.Contains(t, issuePaths(issues), "sync")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.Level = "verbose"

	issues := Validate(&cfg)
	assert.Contains(t, issuePaths(issues), "logging.level")
}

func TestValidate_ConsoleStyle(t *testing.T) {
	cfg := Defaults()
	cfg.Logging.ConsoleStyle = "fancy"

	issues := Validate(&cfg)
	assert.Contains(t, issuePaths(issues), "logging.consoleStyle")
}

func TestValidate_HookEntries(t *testing.T) {
	cfg := Defaults()
	cfg.Hooks.SessionReceived = []HookEntry{
		{Command: "notify-send hi", Timeout: 1000},
		{Command: ""},
		{Command: "x", Timeout: -5},
	}

	issues := Validate(&cfg)
	paths := issuePaths(issues)
	assert.Contains(t, paths, "hooks.sessionReceived[1].command")
	assert.Contains(t, paths, "hooks.sessionReceived[2].timeout")
}
