package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/recurrence"
	"github.com/javiermolinar/flowdesk/internal/reminder"
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task-id]",
		Short: "Show a task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			ctx := context.Background()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			t, err := a.store.GetTask(ctx, a.owner, id)
			if err != nil {
				return fmt.Errorf("fetching task: %w", err)
			}

			out := cmd.OutOrStdout()
			now := a.now()
			fmt.Fprintf(out, "%s %s\n", statusSymbol(t.Status), formatHeader(t.Title))
			fmt.Fprintf(out, "  id:       %s\n", t.ID)
			fmt.Fprintf(out, "  status:   %s\n", t.Status)
			fmt.Fprintf(out, "  created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
			if t.Description != "" {
				fmt.Fprintf(out, "  details:  %s\n", t.Description)
			}
			if t.DueAt != nil {
				fmt.Fprintf(out, "  due:      %s\n", formatWhen(*t.DueAt, now))
			}
			if t.ReminderTime != "" {
				fmt.Fprintf(out, "  reminder: %s", t.ReminderTime)
				if t.RecurrenceDuration != "" {
					fmt.Fprintf(out, ", repeating every %s", FormatDuration(clockMinutes(t.RecurrenceDuration)))
				}
				if reminder.IsDue(t, now) {
					fmt.Fprintf(out, "  %s", formatAlert("due now"))
				}
				fmt.Fprintln(out)
			}
			if t.LastReminderSentAt != "" {
				fmt.Fprintf(out, "  answered: %s\n", t.LastReminderSentAt)
			}
			if r := t.Automation; r != nil {
				fmt.Fprintf(out, "  automation: %s (%s)\n", r.Description, recurrence.ParseFrequency(r.Frequency))
				if r.SendsEmail() {
					fmt.Fprintf(out, "    email:  %s\n", r.EmailSubject)
				}
				if t.NextRunAt != nil {
					fmt.Fprintf(out, "    next:   %s\n", formatWhen(*t.NextRunAt, now))
				}
			}
			return nil
		},
	}
}
