package cli

import (
	"fmt"

	"github.com/soyeahso/humanloop/internal/console"
	"github.com/spf13/cobra"
)

func newCancelCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "cancel <session-id>",
		Short: "Cancel a pending session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if reason == "" {
				reason = console.DefaultCancelReason
			}
			if err := newAPIClient(cfg).CancelSession(cmd.Context(), sessionID, reason); err != nil {
				return err
			}

			fmt.Printf("cancellation requested for %s (%s)\n", sessionID, reason)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "cancellation reason sent to the backend")

	return cmd
}
