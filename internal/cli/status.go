package cli

import (
	"fmt"

	"github.com/soyeahso/humanloop/internal/config"
	"github.com/soyeahso/humanloop/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local setup and backend reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Info())
			fmt.Println()

			fmt.Printf("base dir:    %s\n", paths.Base)
			fmt.Printf("config file: %s\n", paths.Config)
			fmt.Printf("data dir:    %s\n", paths.Data)
			fmt.Printf("logs dir:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("config:      error: %v\n", err)
				return nil
			}
			fmt.Printf("server url:  %s\n", cfg.Server.URL)
			fmt.Printf("user id:     %s\n", cfg.User.ID)
			fmt.Printf("journal:     %v\n", cfg.History.JournalEnabled())

			if issues := config.Validate(&cfg); len(issues) > 0 {
				fmt.Println()
				fmt.Printf("config issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  %s: %s\n", issue.Path, issue.Message)
				}
			}

			fmt.Println()
			health, err := newAPIClient(cfg).GetHealth(cmd.Context())
			if err != nil {
				fmt.Printf("backend:     unreachable: %v\n", err)
				return nil
			}
			fmt.Printf("backend:     %s", health.Status)
			if health.Version != "" {
				fmt.Printf(" (v%s)", health.Version)
			}
			fmt.Println()
			fmt.Printf("  active sessions:    %d\n", health.Statistics.ActiveSessions)
			fmt.Printf("  completed sessions: %d\n", health.Statistics.CompletedSessions)
			return nil
		},
	}
}
