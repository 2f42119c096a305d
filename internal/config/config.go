package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied. The server
// URL matches the backend's default bind.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			URL:              "http://127.0.0.1:8096",
			RequestTimeoutMs: 10000,
		},
		User: UserConfig{
			ID: "current_user",
		},
		Sync: SyncConfig{
			ReconnectMinMs: 1000,
			ReconnectMaxMs: 30000,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
