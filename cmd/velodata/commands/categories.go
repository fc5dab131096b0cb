package commands

import (
	"velodata-backend/lib/osutil"

	"github.com/spf13/cobra"
)

var (
	categoriesInfoID *int
	categoriesLabel  *string
	categoriesOutput outputFlags
)

func init() {
	categoriesInfoID = categoriesCmd.Flags().Int("info-id", 0, "Info ID of the discipline.")
	categoriesLabel = categoriesCmd.Flags().String("label", "", "Label of the discipline.")
	categoriesCmd.MarkFlagRequired("info-id")
	categoriesOutput = addOutputFlags(categoriesCmd)
	rootCmd.AddCommand(categoriesCmd)
}

var categoriesCmd = &cobra.Command{
	Use:   "categories --info-id <N> [--label <text>]",
	Short: "List race categories for a discipline.",
	Run: func(cmd *cobra.Command, args []string) {
		categories, err := newService().GetRaceCategories(cmd.Context(), *categoriesInfoID, *categoriesLabel)
		if err != nil {
			osutil.Fatal("failed to get race categories", err)
		}
		categoriesOutput.printCategories(categories)
	},
}
