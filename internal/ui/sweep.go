package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/automation"
	"github.com/javiermolinar/flowdesk/internal/scheduler"
)

func (a *App) sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Fire every automation that is due",
		Long: `Fire every automation whose next run has passed, for all users.

Each automation sends its email, if it has one, and moves its next run
forward. A failed automation keeps its next run and is retried by the
next sweep. Run this from cron, or use 'flowdesk daemon'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}

			report, err := r.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d of %d automations failed", len(report.Errors), report.Total)
			}
			return nil
		},
	}
}

func printReport(out io.Writer, report automation.Report) {
	fmt.Fprintf(out, "Processed %s automations\n", formatStats(fmt.Sprintf("%d/%d", report.Processed, report.Total)))
	for _, e := range report.Errors {
		fmt.Fprintf(out, "  %s %s: %v\n", formatAlert("✗"), shortID(e.TaskID), e.Err)
	}
}

func (a *App) daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the automation sweep and reminder checks on a schedule",
		Long: `Run in the foreground, sweeping automations on automation.schedule and
logging due reminders for the current owner every reminders.poll_interval.
Stops on Ctrl+C or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			r, err := a.runner()
			if err != nil {
				return err
			}
			interval, err := a.config.Reminders.Interval()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := scheduler.New(nil, a.log)
			if _, err := s.Cron(a.config.Automation.Schedule, func(ctx context.Context) {
				report, err := r.Sweep(ctx)
				if err != nil {
					a.log.Error().Err(err).Msg("automation sweep failed")
					return
				}
				a.log.Info().Int("processed", report.Processed).Int("total", report.Total).Msg("automation sweep")
			}); err != nil {
				return err
			}

			reminders := a.reminderService()
			if _, err := s.Every(interval, func(ctx context.Context) {
				due, err := reminders.Due(ctx, a.owner)
				if err != nil {
					a.log.Error().Err(err).Msg("checking reminders")
					return
				}
				for _, t := range due {
					a.log.Info().Str("task", t.ID).Str("title", t.Title).Str("at", t.ReminderTime).Msg("reminder due")
				}
			}); err != nil {
				return err
			}

			a.log.Info().
				Str("schedule", a.config.Automation.Schedule).
				Dur("reminder_interval", interval).
				Str("owner", a.owner).
				Msg("daemon started")
			s.Start()
			<-ctx.Done()
			s.Stop()
			a.log.Info().Msg("daemon stopped")
			return nil
		},
	}
}
