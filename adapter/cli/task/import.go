package task

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
)

var (
	importFormat  string
	importReplace bool
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Store a batch of tasks from a JSON or YAML file",
	Long: `Store a batch of tasks in one transaction. Either every task is stored or none is.

Examples:
  taskrank task import backlog.yaml
  taskrank task import backlog.json --replace`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ImportTasksHandler == nil {
			return cli.ErrNotInitialized
		}

		inputs, err := cli.ReadTaskFile(args[0], importFormat, cmd.InOrStdin())
		if err != nil {
			return err
		}
		tasks, err := queries.ToTasks(inputs)
		if err != nil {
			return errors.New(cli.FormatError(err))
		}

		result, err := app.ImportTasksHandler.Handle(cmd.Context(), commands.ImportTasksCommand{
			Tasks:   tasks,
			Replace: importReplace,
		})
		if err != nil {
			return fmt.Errorf("failed to import tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if result.Removed > 0 {
			fmt.Fprintf(out, "Removed %d task(s)\n", result.Removed)
		}
		fmt.Fprintf(out, "Imported %d task(s)\n", len(result.TaskIDs))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "batch format (json, yaml); inferred from the extension when empty")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "remove every stored task before importing")
}
