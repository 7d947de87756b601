package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
)

var (
	suggestStrategy string
	suggestLimit    int
	suggestJSON     bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to work on today",
	Long: `Rank every stored task and print the top of the list.

Examples:
  taskrank suggest
  taskrank suggest --strategy fastest_wins --limit 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestTasksHandler == nil {
			return ErrNotInitialized
		}

		result, err := app.SuggestTasksHandler.Handle(cmd.Context(), queries.SuggestTasksQuery{
			Strategy: suggestStrategy,
			Limit:    suggestLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if suggestJSON {
			return PrintJSON(out, result)
		}
		if result.Empty() {
			fmt.Fprintln(out, result.Message)
			return nil
		}

		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s · %s", result.Date, result.Strategy)))
		PrintScoredTasks(out, result.Tasks)
		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestStrategy, "strategy", "s", "", "scoring strategy (see `taskrank strategies`)")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "number of tasks to suggest (0 = configured default)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(suggestCmd)
}
