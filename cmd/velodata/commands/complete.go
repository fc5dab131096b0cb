package commands

import (
	"velodata-backend/lib/osutil"
	"velodata-backend/services/velodata"

	"github.com/spf13/cobra"
)

var (
	completePermit    *string
	completeNoResults *bool
	completeOutput    outputFlags
)

func init() {
	completePermit = completeCmd.Flags().String("permit", "", "Permit number, e.g. 2020-26.")
	completeNoResults = completeCmd.Flags().Bool("no-results", false, "Leave out rider results.")
	completeCmd.MarkFlagRequired("permit")
	completeOutput = addOutputFlags(completeCmd)
	rootCmd.AddCommand(completeCmd)
}

var completeCmd = &cobra.Command{
	Use:   "complete --permit <YYYY-N>",
	Short: "Fetch everything known about one event.",
	Run: func(cmd *cobra.Command, args []string) {
		complete, err := newService().GetCompleteEventData(cmd.Context(), *completePermit, velodata.CompleteOptions{
			SkipResults: *completeNoResults,
		})
		if err != nil {
			osutil.Fatal("failed to get complete event data", err)
		}
		completeOutput.printJSON(complete)
	},
}
