package commands

import (
	"context"
	"fmt"
	"os"
	"time"
	"velodata-backend/lib/osutil"
	"velodata-backend/lib/ratelimit"
	"velodata-backend/lib/restyutil"
	"velodata-backend/lib/scrapers/usac"
	"velodata-backend/lib/telemetry"
	"velodata-backend/services/velodata"

	"github.com/spf13/cobra"
)

var (
	cacheDir    *string
	noCache     *bool
	noRateLimit *bool
	debug       *bool
)

var rootCmd = &cobra.Command{
	Use:   "velodata",
	Short: "velodata scrapes events, race results and flyers from the legacy USA Cycling site.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)
	},
}

func init() {
	cacheDir = rootCmd.PersistentFlags().String("cache-dir", ".cache/velodata", "Directory to store cached responses.")
	noCache = rootCmd.PersistentFlags().Bool("no-cache", false, "Disable response caching.")
	noRateLimit = rootCmd.PersistentFlags().Bool("no-rate-limit", false, "Disable request rate limiting.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
}

func newClient() *usac.Client {
	var limiter *ratelimit.Limiter
	if !*noRateLimit {
		limiter = ratelimit.New(ratelimit.Options{
			Name:     "usac",
			MaxCalls: 30,
			Period:   time.Minute,
			Jitter:   true,
		})
	}

	client, err := usac.NewClient(usac.Options{
		CacheDir:      *cacheDir,
		CacheDisabled: *noCache,
		Limiter:       limiter,
	})
	if err != nil {
		osutil.Fatal("failed to initialize client", err)
	}
	if *debug {
		restyutil.InstrumentClient(client.Resty(), restyutil.NewFilesystemOutput(".dev/resty/usac"))
	}
	return client
}

func newService() velodata.Service {
	return velodata.NewService(newClient())
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
