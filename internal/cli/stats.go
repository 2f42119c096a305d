package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show backend session statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			stats, err := newAPIClient(cfg).GetStatistics(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("active sessions:    %d\n", stats.ActiveSessions)
			fmt.Printf("total sessions:     %d\n", stats.TotalSessions)
			fmt.Printf("completed sessions: %d\n", stats.CompletedSessions)
			return nil
		},
	}
}
