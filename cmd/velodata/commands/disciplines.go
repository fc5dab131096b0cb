package commands

import (
	"velodata-backend/lib/osutil"

	"github.com/spf13/cobra"
)

var (
	disciplinesPermit *string
	disciplinesOutput outputFlags
)

func init() {
	disciplinesPermit = disciplinesCmd.Flags().String("permit", "", "Permit number, e.g. 2020-26.")
	disciplinesCmd.MarkFlagRequired("permit")
	disciplinesOutput = addOutputFlags(disciplinesCmd)
	rootCmd.AddCommand(disciplinesCmd)
}

var disciplinesCmd = &cobra.Command{
	Use:   "disciplines --permit <YYYY-N>",
	Short: "List the disciplines of one event.",
	Run: func(cmd *cobra.Command, args []string) {
		disciplines, err := newService().GetDisciplines(cmd.Context(), *disciplinesPermit)
		if err != nil {
			osutil.Fatal("failed to get disciplines", err)
		}
		disciplinesOutput.printJSON(disciplines)
	},
}
