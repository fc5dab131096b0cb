package commands

import (
	"velodata-backend/lib/osutil"

	"github.com/spf13/cobra"
)

var (
	detailsPermit *string
	detailsOutput outputFlags
)

func init() {
	detailsPermit = detailsCmd.Flags().String("permit", "", "Permit number, e.g. 2020-26.")
	detailsCmd.MarkFlagRequired("permit")
	detailsOutput = addOutputFlags(detailsCmd)
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details --permit <YYYY-N>",
	Short: "Show details for one event.",
	Run: func(cmd *cobra.Command, args []string) {
		details, err := newService().GetEventDetails(cmd.Context(), *detailsPermit)
		if err != nil {
			osutil.Fatal("failed to get event details", err)
		}
		detailsOutput.printJSON(details)
	},
}
