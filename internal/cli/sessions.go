package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List pending interaction sessions on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			sessions, err := newAPIClient(cfg).ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Println("no pending sessions")
				return nil
			}

			now := time.Now()
			fmt.Printf("%-36s  %-12s  %-12s  %-10s  %s\n",
				"SESSION", "TYPE", "STATUS", "AGE", "TITLE")
			for _, s := range sessions {
				itype := "-"
				if s.Interaction != nil {
					itype = string(s.Interaction.Type)
				}
				fmt.Printf("%-36s  %-12s  %-12s  %-10s  %s\n",
					s.SessionID, itype, s.Status.Display(), s.Age(now), s.Title())
			}
			return nil
		},
	}
}
