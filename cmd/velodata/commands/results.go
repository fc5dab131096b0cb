package commands

import (
	"velodata-backend/lib/osutil"

	"github.com/spf13/cobra"
)

var (
	resultsRaceID *int
	resultsPermit *string
	resultsOutput outputFlags
)

func init() {
	resultsRaceID = resultsCmd.Flags().Int("race-id", 0, "Race ID to fetch results for.")
	resultsPermit = resultsCmd.Flags().String("permit", "", "Permit number, fetches results for every race of the event.")
	resultsCmd.MarkFlagsOneRequired("race-id", "permit")
	resultsCmd.MarkFlagsMutuallyExclusive("race-id", "permit")
	resultsOutput = addOutputFlags(resultsCmd)
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results [--race-id <N> | --permit <YYYY-N>]",
	Short: "Fetch rider results for a race or a whole event.",
	Run: func(cmd *cobra.Command, args []string) {
		service := newService()

		if *resultsRaceID != 0 {
			result, err := service.GetRaceResults(cmd.Context(), *resultsRaceID)
			if err != nil {
				osutil.Fatal("failed to get race results", err)
			}
			resultsOutput.printResult(result)
			return
		}

		categories, err := service.GetRacesForPermit(cmd.Context(), *resultsPermit)
		if err != nil {
			osutil.Fatal("failed to get races for permit", err)
		}
		for _, category := range categories {
			result, err := service.GetRaceResults(cmd.Context(), category.ID)
			if err != nil {
				osutil.Fatal("failed to get race results", err)
			}
			resultsOutput.printResult(result)
		}
	},
}
