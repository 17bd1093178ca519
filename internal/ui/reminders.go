package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/scheduler"
	"github.com/javiermolinar/flowdesk/internal/task"
)

func (a *App) remindersCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show reminders that are due now",
		Long: `Show the reminders that are due now, earliest reminder time first.

Answer a reminder with 'flowdesk respond'. With --watch, the list is
refreshed every reminders.poll_interval until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !watch {
				return a.printDueReminders(cmd.Context(), out, true)
			}

			interval, err := a.config.Reminders.Interval()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := scheduler.New(nil, a.log)
			if _, err := s.Every(interval, func(ctx context.Context) {
				if err := a.printDueReminders(ctx, out, false); err != nil {
					a.log.Error().Err(err).Msg("checking reminders")
				}
			}); err != nil {
				return err
			}

			fmt.Fprintf(out, "Watching reminders every %s (Ctrl+C to stop)\n", interval)
			if err := a.printDueReminders(ctx, out, true); err != nil {
				return err
			}
			s.Start()
			<-ctx.Done()
			s.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep checking for due reminders")

	return cmd
}

func (a *App) printDueReminders(ctx context.Context, out io.Writer, sayNone bool) error {
	due, err := a.reminderService().Due(ctx, a.owner)
	if err != nil {
		return fmt.Errorf("checking reminders: %w", err)
	}

	if len(due) == 0 {
		if sayNone {
			fmt.Fprintln(out, "No reminders due.")
		}
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", formatAlert("⏰"), formatHeader(fmt.Sprintf("%d reminder(s) due at %s", len(due), a.now().Format("15:04"))))
	width := titleWidth(50)
	for _, t := range due {
		printTaskRow(out, t, width)
	}
	fmt.Fprintln(out, formatMuted("  Done? flowdesk respond <id> yes|no"))
	return nil
}

func (a *App) respondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond [task-id] [yes|no]",
		Short: "Answer a reminder",
		Long: `Answer a reminder: "yes" marks the task done, "no" marks it in progress
so a task with a repeat interval reminds you again later.

Example:
  flowdesk respond 3f2a9c1d no`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			completed, err := parseAnswer(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			status, err := a.reminderService().Respond(ctx, a.owner, id, completed)
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Task %s marked %s", shortID(id), status)
			if status == task.StatusDone {
				msg = formatDone(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func parseAnswer(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "done", "true":
		return true, nil
	case "n", "no", "not-yet", "false":
		return false, nil
	default:
		return false, fmt.Errorf("answer must be yes or no, got %q", s)
	}
}
