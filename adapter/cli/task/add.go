package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/domain/task"
)

var (
	importance   int
	hours        float64
	dueDate      string
	dependencies []int64
	explicitID   int64
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Store a new task",
	Long: `Store a new task with a title and optional attributes.

Examples:
  taskrank task add "Write quarterly report" --due 2025-03-14 --hours 3 -i 8
  taskrank task add "Deploy" --depends-on 1 --depends-on 2`,
	Aliases: []string{"create"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return cli.ErrNotInitialized
		}

		createCmd := commands.CreateTaskCommand{
			Title:        args[0],
			Importance:   importance,
			Dependencies: dependencies,
		}
		if explicitID > 0 {
			id := explicitID
			createCmd.ID = &id
		}
		if cmd.Flags().Changed("hours") {
			h := hours
			createCmd.EstimatedHours = &h
		}
		if dueDate != "" {
			parsed, err := task.ParseDate(dueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return errors.New(cli.FormatError(err))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task stored: %d\n", result.TaskID)
		fmt.Fprintf(out, "  title: %s\n", args[0])
		if createCmd.DueDate != nil {
			fmt.Fprintf(out, "  due: %s\n", createCmd.DueDate.Format(time.DateOnly))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&importance, "importance", "i", task.DefaultImportance, "importance from 1 to 10")
	addCmd.Flags().Float64Var(&hours, "hours", 0, "estimated effort in hours")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().Int64SliceVar(&dependencies, "depends-on", nil, "id of a task this one depends on (repeatable)")
	addCmd.Flags().Int64Var(&explicitID, "id", 0, "store under this id, replacing any task already using it")
}
