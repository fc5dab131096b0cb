package commands

import (
	"velodata-backend/lib/osutil"

	"github.com/spf13/cobra"
)

var (
	eventsState  *string
	eventsYear   *int
	eventsOutput outputFlags
)

func init() {
	eventsState = eventsCmd.Flags().String("state", "", "Two-letter state code.")
	eventsYear = eventsCmd.Flags().Int("year", 0, "Year to list events for.")
	eventsCmd.MarkFlagRequired("state")
	eventsCmd.MarkFlagRequired("year")
	eventsOutput = addOutputFlags(eventsCmd)
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events --state <XX> --year <YYYY>",
	Short: "List events for a state and year.",
	Run: func(cmd *cobra.Command, args []string) {
		events, err := newService().GetEvents(cmd.Context(), *eventsState, *eventsYear)
		if err != nil {
			osutil.Fatal("failed to get events", err)
		}
		eventsOutput.printEvents(events)
	},
}
