package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Example: `  flowdesk list
  flowdesk list --status=in_progress`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			var st task.Status
			if status != "" {
				parsed, err := task.ParseStatus(status)
				if err != nil {
					return err
				}
				st = parsed
			}

			tasks, err := a.store.ListTasks(context.Background(), a.owner, st)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}

			width := titleWidth(40)
			counts := map[task.Status]int{}
			for _, t := range tasks {
				printTaskRow(out, t, width)
				counts[t.Status]++
			}

			fmt.Fprintln(out, strings.Repeat("─", 40))
			fmt.Fprintf(out, "%d tasks: %d todo, %d in progress, %d done\n",
				len(tasks), counts[task.StatusTodo], counts[task.StatusInProgress], counts[task.StatusDone])
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only list tasks with this status")

	return cmd
}

// resolveTaskID expands a unique ID prefix of one of the owner's tasks.
func (a *App) resolveTaskID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", task.ErrTaskNotFound
	}

	tasks, err := a.store.ListTasks(ctx, a.owner, "")
	if err != nil {
		return "", fmt.Errorf("listing tasks: %w", err)
	}

	var match string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("task id %q is ambiguous", prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", task.ErrTaskNotFound, prefix)
	}
	return match, nil
}
