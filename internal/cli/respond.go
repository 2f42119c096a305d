package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soyeahso/humanloop/internal/api"
	"github.com/soyeahso/humanloop/internal/dispatch"
	"github.com/soyeahso/humanloop/internal/domain"
	"github.com/spf13/cobra"
)

func newRespondCmd() *cobra.Command {
	var (
		choice   string
		selected []string
		fields   []string
		files    []string
		userID   string
	)

	cmd := &cobra.Command{
		Use:   "respond <session-id>",
		Short: "Validate and submit a response to a pending session",
		Long: "respond fetches the session from the backend, validates the given\n" +
			"input against its interaction type locally, and submits the response.\n" +
			"The session stays pending until the backend confirms completion.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client := newAPIClient(cfg)

			sess, err := findSession(cmd, client, sessionID)
			if err != nil {
				return err
			}

			in := dispatch.Input{
				Choice:   choice,
				Selected: selected,
				Files:    files,
				Fields:   make(map[string]string, len(fields)),
			}
			for _, kv := range fields {
				name, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--field wants name=value, got %q", kv)
				}
				in.Fields[name] = value
			}

			payload, err := dispatch.BuildResponse(sess, in)
			if err != nil {
				var verr *dispatch.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("input rejected before submission: %w", verr)
				}
				return err
			}

			if userID == "" {
				userID = cfg.User.ID
			}
			if err := client.SubmitResponse(cmd.Context(), sessionID, payload, userID); err != nil {
				return err
			}

			fmt.Printf("response submitted for %s\n", sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&choice, "choice", "", "choice value for confirmation interactions")
	cmd.Flags().StringArrayVar(&selected, "select", nil, "selected option value, repeatable for multi-select")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "text field as name=value, repeatable")
	cmd.Flags().StringArrayVar(&files, "file", nil, "file name for upload interactions, repeatable")
	cmd.Flags().StringVar(&userID, "user", "", "submit as this user ID (default from config)")

	return cmd
}

// findSession looks the session up in the backend's pending snapshot.
func findSession(cmd *cobra.Command, client *api.Client, sessionID string) (*domain.Session, error) {
	sessions, err := client.ListSessions(cmd.Context())
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.SessionID == sessionID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("session %s is not pending on the backend", sessionID)
}
