package cli

import (
	"time"

	"github.com/soyeahso/humanloop/internal/api"
	"github.com/soyeahso/humanloop/internal/config"
)

// loadConfig loads and validates the config for a command, falling
// back to defaults when no file exists.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newAPIClient builds the REST client from config.
func newAPIClient(cfg config.Config) *api.Client {
	timeout := time.Duration(cfg.Server.RequestTimeoutMs) * time.Millisecond
	return api.New(cfg.Server.URL, timeout, log)
}
