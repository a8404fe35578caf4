package cmd

import (
	"github.com/seunfola/repohealth/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd re-analyzes a set of repositories on an interval.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically re-analyze a list of repositories.",
	Long: `Run the full analysis for every configured repository and repeat it
on a fixed interval, keeping stored records fresh. Each pass runs
immediately on startup and then once per interval until interrupted.

Failures for individual repositories are logged and skipped so a single
bad entry never stops the loop.

Examples:
  # Watch two repositories every 10 minutes
  repohealth watch --watch-repos golang/go,expressjs/express --watch-interval 10m

  # Configure the list via environment
  REPOHEALTH_WATCH_REPOS=golang/go repohealth watch`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := svc.Watch(rootCtx, cfg.WatchRepos, cfg.WatchInterval); err != nil {
			contract.LogFatal("Cannot run watch loop", err)
		}
	},
}
