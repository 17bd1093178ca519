package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/planner"
	"github.com/javiermolinar/flowdesk/internal/task"
)

func (a *App) plannerCmd() *cobra.Command {
	var (
		scale    string
		date     string
		showFree bool
	)

	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Show the planner for an hour, day, week, month or year",
		Long: `Show planner slots for the period containing --date.

Hour, day and week views are laid out hour by hour; month and year views
day by day. Month views span whole weeks, Sunday to Saturday.`,
		Example: `  flowdesk planner
  flowdesk planner --scale=day --date=tomorrow
  flowdesk planner --scale=month --date=2025-02-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			s, err := dateutil.ParseScale(scale)
			if err != nil {
				return err
			}
			anchor, err := dateutil.ParseAnchor(date, a.now())
			if err != nil {
				return err
			}

			w, err := a.plannerService().View(context.Background(), a.owner, s, anchor)
			if err != nil {
				return err
			}
			printWindow(cmd.OutOrStdout(), w, showFree)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scale, "scale", "s", "week", "View scale: hour, day, week, month or year")
	cmd.Flags().StringVar(&date, "date", "", "Any date in the period (YYYY-MM-DD, today, tomorrow, yesterday)")
	cmd.Flags().BoolVar(&showFree, "free", false, "Also print empty cells")

	cmd.AddCommand(a.plannerLiveCmd())
	cmd.AddCommand(a.plannerAssignCmd())
	cmd.AddCommand(a.plannerToggleCmd())
	cmd.AddCommand(a.plannerRemoveCmd())
	cmd.AddCommand(a.plannerStatsCmd())

	return cmd
}

func printWindow(out io.Writer, w planner.Window, showFree bool) {
	header := fmt.Sprintf("%s: %s - %s", strings.ToUpper(string(w.Scale)),
		w.Range.Start.Format("Mon Jan 2"), w.Range.End.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(out, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(out, strings.Repeat("─", 60))

	filled := 0
	if w.PeriodSlot != nil {
		printCell(out, planner.Cell{Key: w.PeriodSlot.PeriodKey, Slot: w.PeriodSlot}, "")
		filled++
	}
	lastDay := ""
	for _, c := range w.Cells {
		if c.Slot == nil && !showFree {
			continue
		}
		if c.Slot != nil {
			filled++
		}
		if w.QueryScale == dateutil.ScaleHour && w.Scale == dateutil.ScaleWeek {
			if day := c.Start.Format("2006-01-02"); day != lastDay {
				fmt.Fprintf(out, "  %s\n", formatHeader(c.Start.Format("Monday, Jan 2")))
				lastDay = day
			}
		}
		printCell(out, c, w.Scale)
	}
	if filled == 0 {
		fmt.Fprintln(out, formatMuted("  No slots planned."))
	}

	printUnallocated(out, w.Unallocated)
}

func printUnallocated(out io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "  %s\n", formatHeader(fmt.Sprintf("Unplanned (%d)", len(tasks))))
	width := titleWidth(30)
	for _, t := range tasks {
		printTaskRow(out, t, width)
	}
}

func (a *App) plannerLiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Show the coming hours plus unfinished earlier slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			live, err := a.plannerService().Live(context.Background(), a.owner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s\n", formatHeader("NOW: "+a.now().Format("Mon Jan 2 15:04")))
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, c := range live.Cells {
				if c.Past {
					printCell(out, c, "")
					continue
				}
				printCell(out, c, dateutil.ScaleHour)
			}
			printUnallocated(out, live.Unallocated)
			fmt.Fprintln(out, strings.Repeat("─", 60))
			fmt.Fprintf(out, "  Last %d days: %s\n", a.config.Planner.StatsDays, CompletionBar(live.Stats, 20))
			return nil
		},
	}
}

func (a *App) plannerAssignCmd() *cobra.Command {
	var (
		scale  string
		at     string
		taskID string
	)

	cmd := &cobra.Command{
		Use:   "assign [title]",
		Short: "Put a task in a planner slot",
		Long: `Put a task in the slot of --scale containing --at. Assigning to a slot
that is already taken replaces its task and marks it not done.

Give either a free-text title or --task with a task id.`,
		Example: `  flowdesk planner assign --at=14:00 --task=3f2a9c1d
  flowdesk planner assign "Plan Q3" --scale=week --at=2025-07-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			s, err := dateutil.ParseScale(scale)
			if err != nil {
				return err
			}
			when := a.now()
			if at != "" {
				if when, err = dateutil.ParseMoment(at, when); err != nil {
					return err
				}
			}

			ctx := context.Background()
			if taskID != "" {
				if taskID, err = a.resolveTaskID(ctx, taskID); err != nil {
					return err
				}
			}

			slot, err := a.plannerService().Assign(ctx, a.owner, s, when, strings.Join(args, " "), taskID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %q for %s %s (slot %s)\n",
				slot.TaskTitle, slot.Scale, slot.PeriodKey, slot.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scale, "scale", "s", "hour", "Slot scale: hour, day, week, month or year")
	cmd.Flags().StringVar(&at, "at", "", "When: HH:MM, YYYY-MM-DD or \"YYYY-MM-DD HH:MM\" (default: now)")
	cmd.Flags().StringVar(&taskID, "task", "", "Task id to plan")

	return cmd
}

func (a *App) plannerToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle [slot-id]",
		Short: "Mark a slot done, or not done again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			done, err := a.plannerService().Toggle(context.Background(), a.owner, args[0])
			if err != nil {
				return err
			}
			state := "not done"
			if done {
				state = formatDone("done")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Slot %s is %s\n", args[0], state)
			return nil
		},
	}
}

func (a *App) plannerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [slot-id]",
		Short: "Clear a planner slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			if err := a.plannerService().Remove(context.Background(), a.owner, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed slot %s\n", args[0])
			return nil
		},
	}
}

func (a *App) plannerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many planned slots you completed recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			stats, err := a.plannerService().Stats(context.Background(), a.owner)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Last %d days: %s\n", a.config.Planner.StatsDays, CompletionBar(stats, 20))
			return nil
		},
	}
}
