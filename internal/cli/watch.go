package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soyeahso/humanloop/internal/config"
	"github.com/soyeahso/humanloop/internal/console"
	"github.com/soyeahso/humanloop/internal/history"
	"github.com/soyeahso/humanloop/internal/hooks"
	"github.com/soyeahso/humanloop/internal/logging"
	"github.com/soyeahso/humanloop/internal/session"
	syncer "github.com/soyeahso/humanloop/internal/sync"
	"github.com/spf13/cobra"
)

// terminalNotifier prints notifications as tagged lines on stdout.
type terminalNotifier struct{}

func (terminalNotifier) Notify(level console.Level, message string) {
	fmt.Printf("[%s] %s\n", level, message)
}

// sessionPrinter reprints the pending-session list whenever the store
// changes, newest first.
type sessionPrinter struct {
	store *session.Store
}

func (p *sessionPrinter) SessionsChanged() {
	sessions := p.store.List()
	if len(sessions) == 0 {
		fmt.Println("  (no pending sessions)")
		return
	}
	now := time.Now()
	for _, s := range sessions {
		fmt.Printf("  %-36s  %-12s  %-10s  %s\n",
			s.SessionID, s.Status.Display(), s.Age(now), s.Title())
	}
}

func newWatchCmd() *cobra.Command {
	var printList bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Connect to the backend and follow interaction requests live",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if issues := config.Validate(&cfg); len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			// The --log-level flag wins; otherwise honor the config's
			// logging section, including the optional file copy.
			if logLevel == "" {
				styled, err := logging.NewStyled(cfg.Logging.Level, cfg.Logging.ConsoleStyle, cfg.Logging.File)
				if err != nil {
					return err
				}
				log = styled
			}

			wsURL, err := syncer.WebSocketURL(cfg.Server.URL)
			if err != nil {
				return err
			}

			store := session.NewStore(log)
			if printList {
				store.Subscribe(&sessionPrinter{store: store})
			}

			channel := syncer.NewChannel(syncer.ChannelConfig{
				URL:        wsURL,
				MinBackoff: time.Duration(cfg.Sync.ReconnectMinMs) * time.Millisecond,
				MaxBackoff: time.Duration(cfg.Sync.ReconnectMaxMs) * time.Millisecond,
			}, log)

			hookMgr := hooks.NewManager(log)
			registerConfiguredHooks(hookMgr, cfg.Hooks)

			opts := []console.Option{
				console.WithNotifier(terminalNotifier{}),
				console.WithHooks(hookMgr),
			}

			if cfg.History.JournalEnabled() {
				dbPath := cfg.History.Path
				if dbPath == "" {
					dbPath = filepath.Join(paths.Data, "humanloop.db")
				}
				db, err := history.Open(dbPath, log)
				if err != nil {
					return fmt.Errorf("opening journal: %w", err)
				}
				defer db.Close()
				opts = append(opts, console.WithJournal(history.NewJournal(db)))
				log.Info().Str("path", dbPath).Msg("response journal enabled")
			}

			cons := console.New(store, channel, newAPIClient(cfg), cfg.User.ID, log, opts...)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("watching %s (Ctrl-C to stop)\n", cfg.Server.URL)
			if err := cons.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printList, "list", true, "reprint the session list on every change")

	return cmd
}

// registerConfiguredHooks wires shell-command hooks from config.
func registerConfiguredHooks(m *hooks.Manager, cfg config.HooksConfig) {
	wire := func(event string, entries []config.HookEntry) {
		for _, e := range entries {
			m.RegisterCommand(event, hooks.CommandEntry{Command: e.Command, Timeout: e.Timeout})
		}
	}
	wire(hooks.EventSessionReceived, cfg.SessionReceived)
	wire(hooks.EventSessionCompleted, cfg.SessionCompleted)
	wire(hooks.EventSessionCancelled, cfg.SessionCancelled)
	wire(hooks.EventResponseSubmitted, cfg.ResponseSubmitted)
}
