// Package ui implements the flowdesk command line.
package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/automation"
	"github.com/javiermolinar/flowdesk/internal/clock"
	"github.com/javiermolinar/flowdesk/internal/config"
	"github.com/javiermolinar/flowdesk/internal/db"
	"github.com/javiermolinar/flowdesk/internal/llm"
	"github.com/javiermolinar/flowdesk/internal/mailer"
	"github.com/javiermolinar/flowdesk/internal/planner"
	"github.com/javiermolinar/flowdesk/internal/reminder"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	log     zerolog.Logger
	clock   clock.Clock
	store   *db.Store
	root    *cobra.Command
	owner   string
	noColor bool
}

// NewApp creates a new CLI application. The database is opened on first use.
func NewApp(cfg *config.Config, log zerolog.Logger) *App {
	a := &App{config: cfg, log: log, clock: clock.RealClock{}}

	a.root = &cobra.Command{
		Use:   "flowdesk",
		Short: "Reminders, automations and a time-scaled planner for your tasks",
		Long: `FlowDesk keeps your to-do list, nudges you when reminders come due,
runs recurring automations and lets you lay tasks out on an hour, day,
week, month or year planner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				DisableColor()
			}
		},
	}

	a.root.PersistentFlags().StringVar(&a.owner, "owner", cfg.User.Owner, "Act on this user's tasks")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.statusCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.remindersCmd())
	a.root.AddCommand(a.respondCmd())
	a.root.AddCommand(a.automateCmd())
	a.root.AddCommand(a.sweepCmd())
	a.root.AddCommand(a.daemonCmd())
	a.root.AddCommand(a.plannerCmd())
	a.root.AddCommand(a.userCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flowdesk %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database, if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ensureStore opens the configured database on first use and records the
// configured user email so automations can reach it.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}
	store, err := db.Open(a.config.Storage.Driver, a.config.Storage.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = store

	if email := a.config.User.Email; email != "" {
		if err := store.SetOwnerEmail(context.Background(), a.config.User.Owner, email); err != nil {
			return fmt.Errorf("storing user email: %w", err)
		}
	}
	return nil
}

func (a *App) reminderService() *reminder.Service {
	return reminder.NewService(a.store, a.clock, a.log)
}

func (a *App) plannerService() *planner.Service {
	opts := planner.Options{
		LiveHours:    a.config.Planner.LiveHours,
		DisplayLimit: a.config.Planner.DisplayLimit,
		StatsDays:    a.config.Planner.StatsDays,
	}
	return planner.NewService(a.store, a.store, a.clock, opts, a.log)
}

func (a *App) automationService() (*automation.Service, error) {
	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	return automation.NewService(a.store, client, a.clock, a.log), nil
}

func (a *App) runner() (*automation.Runner, error) {
	sender, err := a.mailSender()
	if err != nil {
		return nil, err
	}
	return automation.NewRunner(a.store, sender, a.clock, a.log, a.config.Automation.Concurrency), nil
}

// mailSender returns the SMTP sender, or a logging sender when no SMTP host
// is configured.
func (a *App) mailSender() (mailer.Sender, error) {
	m := a.config.Mail
	sender, err := mailer.NewSMTP(mailer.Config{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
	})
	if errors.Is(err, mailer.ErrNotConfigured) {
		a.log.Debug().Msg("smtp not configured, automation emails are logged only")
		return mailer.NewLog(a.log), nil
	}
	if err != nil {
		return nil, fmt.Errorf("configuring mail: %w", err)
	}
	return sender, nil
}

func (a *App) now() time.Time {
	return a.clock.Now()
}
