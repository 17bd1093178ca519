package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/task"
)

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [task-id] [todo|in_progress|done]",
		Short:   "Set the status of a task",
		Example: `  flowdesk status 3f2a9c1d done`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			status, err := task.ParseStatus(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.store.UpdateStatus(ctx, a.owner, id, status); err != nil {
				return fmt.Errorf("updating status: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", shortID(id), status)
			return nil
		},
	}
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task-id]",
		Short: "Delete a task",
		Long:  `Delete a task. Planner slots that point at it keep their title.`,
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
			if err := a.store.DeleteTask(ctx, a.owner, id); err != nil {
				return fmt.Errorf("deleting task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
			return nil
		},
	}
}
