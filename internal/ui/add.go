package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		description string
		due         string
		remind      string
		repeat      string
		status      string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a new task to your list.

A reminder fires once a day at --remind. With --repeat, a task you answered
"not yet" keeps reminding you every HH:MM until it is done.

Example:
  flowdesk add "Write documentation" --due="2025-01-10 17:00" --remind=09:00 --repeat=01:30`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			st, err := task.ParseStatus(status)
			if err != nil {
				return err
			}
			opts := task.Options{
				Description:        description,
				Status:             st,
				ReminderTime:       remind,
				RecurrenceDuration: repeat,
			}
			if due != "" {
				at, err := dateutil.ParseMoment(due, a.now())
				if err != nil {
					return fmt.Errorf("invalid --due: %w", err)
				}
				opts.DueAt = &at
			}

			t, err := task.New(a.owner, strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			if err := a.store.CreateTask(context.Background(), t); err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s [%s]\n", shortID(t.ID), t.Title, t.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Longer description")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\")")
	cmd.Flags().StringVar(&remind, "remind", "", "Daily reminder time (HH:MM)")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Repeat an unanswered reminder every HH:MM")
	cmd.Flags().StringVar(&status, "status", "todo", "Initial status: todo, in_progress or done")

	return cmd
}
