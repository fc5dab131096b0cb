package commands

import (
	"context"
	"time"
	"velodata-backend/lib/flyerstore"
	"velodata-backend/lib/osutil"
	"velodata-backend/lib/scrapers/usac"
	"velodata-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	flyerStorageDir *string
	flyerS3Bucket   *string
	flyerS3Prefix   *string

	fetchFlyerPermit *string
	fetchFlyerOutput outputFlags

	flyersStartYear *int
	flyersEndYear   *int
	flyersLimit     *int
	flyersDelay     *int
	flyersOutput    outputFlags

	listFlyersOutput outputFlags
)

func init() {
	flyerStorageDir = rootCmd.PersistentFlags().String("storage-dir", "./flyers", "Directory to store flyers in.")
	flyerS3Bucket = rootCmd.PersistentFlags().String("s3-bucket", "", "Store flyers in this S3 bucket instead of locally.")
	flyerS3Prefix = rootCmd.PersistentFlags().String("s3-prefix", "flyers", "Key prefix for S3 flyer storage.")

	fetchFlyerPermit = fetchFlyerCmd.Flags().String("permit", "", "Permit number, e.g. 2020-26.")
	fetchFlyerCmd.MarkFlagRequired("permit")
	fetchFlyerOutput = addOutputFlags(fetchFlyerCmd)
	rootCmd.AddCommand(fetchFlyerCmd)

	flyersStartYear = fetchFlyersCmd.Flags().Int("start-year", 0, "First year to fetch flyers for.")
	flyersEndYear = fetchFlyersCmd.Flags().Int("end-year", 0, "Last year to fetch flyers for.")
	flyersLimit = fetchFlyersCmd.Flags().Int("limit", 100, "Maximum number of flyers to fetch.")
	flyersDelay = fetchFlyersCmd.Flags().Int("delay", 3, "Delay between downloads in seconds.")
	fetchFlyersCmd.MarkFlagRequired("start-year")
	fetchFlyersCmd.MarkFlagRequired("end-year")
	flyersOutput = addOutputFlags(fetchFlyersCmd)
	rootCmd.AddCommand(fetchFlyersCmd)

	listFlyersOutput = addOutputFlags(listFlyersCmd)
	rootCmd.AddCommand(listFlyersCmd)
}

func newFlyerStore(ctx context.Context) flyerstore.Store {
	if *flyerS3Bucket != "" {
		store, err := flyerstore.NewS3(ctx, *flyerS3Bucket, *flyerS3Prefix)
		if err != nil {
			osutil.Fatal("failed to initialize s3 flyer store", err)
		}
		return store
	}

	store, err := flyerstore.NewLocal(*flyerStorageDir)
	if err != nil {
		osutil.Fatal("failed to initialize local flyer store", err)
	}
	return store
}

var fetchFlyerCmd = &cobra.Command{
	Use:   "fetch-flyer --permit <YYYY-N>",
	Short: "Download and store the flyer for one event.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		fetcher := usac.NewFlyerFetcher(newClient(), newFlyerStore(ctx))

		result := fetcher.FetchFlyer(ctx, *fetchFlyerPermit)
		if result.Err != nil {
			osutil.Fatal("failed to fetch flyer", result.Err)
		}
		fetchFlyerOutput.printJSON(result)
	},
}

var fetchFlyersCmd = &cobra.Command{
	Use:   "fetch-flyers --start-year <YYYY> --end-year <YYYY>",
	Short: "Download flyers for every event in a year range.",
	Run: func(cmd *cobra.Command, args []string) {
		// bulk fetches run for hours, ctrl-c should exit cleanly with
		// stats intact
		ctx := osutil.SignalContext()
		telemetry.InstrumentPerfStats(ctx)

		fetcher := usac.NewFlyerFetcher(newClient(), newFlyerStore(ctx))

		stats, err := fetcher.FetchFlyersBatch(ctx, usac.BatchOptions{
			StartYear: *flyersStartYear,
			EndYear:   *flyersEndYear,
			Limit:     *flyersLimit,
			Delay:     time.Duration(*flyersDelay) * time.Second,
		})
		if err != nil {
			osutil.Fatal("flyer batch aborted", err)
		}
		flyersOutput.printJSON(stats)
	},
}

var listFlyersCmd = &cobra.Command{
	Use:   "list-flyers",
	Short: "List every flyer in storage.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		store := newFlyerStore(ctx)

		entries, err := store.List(ctx)
		if err != nil {
			osutil.Fatal("failed to list flyers", err)
		}
		listFlyersOutput.printFlyers(entries)
	},
}
