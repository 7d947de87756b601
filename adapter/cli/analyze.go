package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
)

var (
	analyzeFile     string
	analyzeFormat   string
	analyzeStrategy string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score and rank a batch of tasks",
	Long: `Score and rank a batch of tasks read from a JSON or YAML file.
The batch is not stored.

Examples:
  taskrank analyze --file tasks.json
  taskrank analyze --file tasks.yaml --strategy deadline_driven
  cat tasks.json | taskrank analyze --file - --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return ErrNotInitialized
		}

		inputs, err := ReadTaskFile(analyzeFile, analyzeFormat, cmd.InOrStdin())
		if err != nil {
			return err
		}

		result, err := app.AnalyzeTasksHandler.Handle(cmd.Context(), queries.AnalyzeTasksQuery{
			Tasks:    inputs,
			Strategy: analyzeStrategy,
		})
		if err != nil {
			return errors.New(FormatError(err))
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			return PrintJSON(out, result)
		}
		if len(result) == 0 {
			fmt.Fprintln(out, "No tasks to analyze.")
			return nil
		}
		PrintScoredTasks(out, result)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "-", "task batch file, or - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "batch format (json, yaml); inferred from the extension when empty")
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "", "scoring strategy (see `taskrank strategies`)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(analyzeCmd)
}
