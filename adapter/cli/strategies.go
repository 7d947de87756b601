package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/services"
)

var strategiesJSON bool

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List scoring strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if strategiesJSON {
			return PrintJSON(out, services.Strategies())
		}
		for _, s := range services.Strategies() {
			name := string(s.Name)
			if s.Default {
				name += " (default)"
			}
			fmt.Fprintf(out, "%s\n   %s\n   %s\n", titleStyle.Render(name), s.Description, mutedStyle.Render(s.Formula))
		}
		return nil
	},
}

func init() {
	strategiesCmd.Flags().BoolVar(&strategiesJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(strategiesCmd)
}
