package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/flowdesk/internal/dateutil"
	"github.com/javiermolinar/flowdesk/internal/db"
	"github.com/javiermolinar/flowdesk/internal/task"
)

// lastKey sorts after every period key.
const lastKey = "~"

var allScales = []dateutil.Scale{
	dateutil.ScaleHour,
	dateutil.ScaleDay,
	dateutil.ScaleWeek,
	dateutil.ScaleMonth,
	dateutil.ScaleYear,
}

type importResult struct {
	Tasks   int
	Skipped int
	Slots   int
}

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import tasks and planner slots from another database",
		Long: `Import the owner's tasks and planner slots from another FlowDesk
SQLite database into the configured one. Tasks that already exist are
skipped; slots replace whatever occupies the same period.

Example:
  flowdesk import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.store.Driver() == db.DriverSQLite {
				destPath, err := resolvePath(a.config.Storage.DSN)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			res, err := importOwner(context.Background(), a.store, sourcePath, a.owner)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks (%d already present) and %d slots from %s\n",
				res.Tasks, res.Skipped, res.Slots, sourcePath)
			return nil
		},
	}

	return cmd
}

// importOwner copies the owner's tasks and slots from the SQLite database at
// sourcePath. Task IDs are preserved so slots keep pointing at their tasks.
func importOwner(ctx context.Context, dest *db.Store, sourcePath, owner string) (importResult, error) {
	var res importResult

	source, err := db.New(sourcePath)
	if err != nil {
		return res, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	tasks, err := source.ListTasks(ctx, owner, "")
	if err != nil {
		return res, fmt.Errorf("listing source tasks: %w", err)
	}
	for _, t := range tasks {
		_, err := dest.GetTask(ctx, owner, t.ID)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, task.ErrTaskNotFound) {
			return res, err
		}
		if err := dest.CreateTask(ctx, t); err != nil {
			return res, fmt.Errorf("importing task %q: %w", t.Title, err)
		}
		res.Tasks++
	}

	for _, scale := range allScales {
		slots, err := source.ListSlots(ctx, owner, scale, "", lastKey)
		if err != nil {
			return res, fmt.Errorf("listing source slots: %w", err)
		}
		for i := range slots {
			slot := slots[i]
			if err := dest.UpsertSlot(ctx, &slot); err != nil {
				return res, fmt.Errorf("importing slot %s: %w", slot.PeriodKey, err)
			}
			if slots[i].IsDone {
				if _, err := dest.ToggleSlot(ctx, owner, slot.ID); err != nil {
					return res, fmt.Errorf("importing slot %s: %w", slot.PeriodKey, err)
				}
			}
			res.Slots++
		}
	}

	return res, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
