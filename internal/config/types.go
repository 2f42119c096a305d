package config

// Config is the root configuration for the humanloop console.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	User    UserConfig    `yaml:"user,omitempty"`
	Sync    SyncConfig    `yaml:"sync,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Hooks   HooksConfig   `yaml:"hooks,omitempty"`
}

// ServerConfig points at the humanloop backend.
type ServerConfig struct {
	URL              string `yaml:"url,omitempty"`              // e.g. http://127.0.0.1:8096
	RequestTimeoutMs int    `yaml:"requestTimeoutMs,omitempty"` // bound on one-shot REST calls
}

// UserConfig identifies the operator in submitted responses.
type UserConfig struct {
	ID string `yaml:"id,omitempty"`
}

// SyncConfig tunes the push channel reconnect behavior.
type SyncConfig struct {
	ReconnectMinMs int `yaml:"reconnectMinMs,omitempty"`
	ReconnectMaxMs int `yaml:"reconnectMaxMs,omitempty"`
}

// HistoryConfig controls the local response journal.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // default true
	Path    string `yaml:"path,omitempty"`    // default <data>/humanloop.db
}

// JournalEnabled reports whether the journal should be opened.
func (h HistoryConfig) JournalEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	File         string `yaml:"file,omitempty"`
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}

// HooksConfig defines shell-command hooks per lifecycle event.
type HooksConfig struct {
	SessionReceived   []HookEntry `yaml:"sessionReceived,omitempty"`
	SessionCompleted  []HookEntry `yaml:"sessionCompleted,omitempty"`
	SessionCancelled  []HookEntry `yaml:"sessionCancelled,omitempty"`
	ResponseSubmitted []HookEntry `yaml:"responseSubmitted,omitempty"`
}

// HookEntry defines a single hook action.
type HookEntry struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout,omitempty"` // milliseconds
}
