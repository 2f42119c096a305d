package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/soyeahso/humanloop/internal/history"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		lifecycle bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded submissions and session outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.History.JournalEnabled() {
				return fmt.Errorf("the response journal is disabled in config")
			}

			dbPath := cfg.History.Path
			if dbPath == "" {
				dbPath = filepath.Join(paths.Data, "humanloop.db")
			}
			db, err := history.Open(dbPath, log)
			if err != nil {
				return err
			}
			defer db.Close()
			journal := history.NewJournal(db)

			if lifecycle {
				entries, err := journal.Lifecycle(limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("no recorded outcomes")
					return nil
				}
				for _, e := range entries {
					line := fmt.Sprintf("%s  %-36s  %s",
						e.OccurredAt.Format(time.DateTime), e.SessionID, e.Outcome)
					if e.Reason != "" {
						line += "  (" + e.Reason + ")"
					}
					fmt.Println(line)
				}
				return nil
			}

			subs, err := journal.Submissions(limit)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("no recorded submissions")
				return nil
			}
			for _, s := range subs {
				fmt.Printf("%s  %-36s  %-8s  %s\n",
					s.CreatedAt.Format(time.DateTime), s.SessionID, s.Kind, s.Payload)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	cmd.Flags().BoolVar(&lifecycle, "outcomes", false, "show session outcomes instead of submissions")

	return cmd
}
