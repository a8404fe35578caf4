package cmd

import (
	"strings"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/outwriter"
	"github.com/seunfola/repohealth/schema"
	"github.com/spf13/cobra"
)

// showCmd prints previously stored health records.
var showCmd = &cobra.Command{
	Use:   "show [owner/repo]",
	Short: "Show stored health records.",
	Long: `Print health records from the store without re-running any analysis.

With an owner/repo argument, shows that repository's latest record.
Without arguments, lists every stored record ordered by repository.

Examples:
  # Show one repository
  repohealth show golang/go

  # List everything as CSV
  repohealth show --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()

		if len(args) == 1 {
			owner, repo, ok := strings.Cut(args[0], "/")
			if !ok {
				contract.LogFatal("Cannot parse target", schema.ErrInvalidRepoURL)
			}
			rec, err := svc.FindRepoHealth(rootCtx, owner, repo)
			if err != nil {
				contract.LogFatal("Cannot find health record", err)
			}
			if err := outwriter.WriteHealthRecord(rec, cfg, time.Since(start)); err != nil {
				contract.LogFatal("Cannot write record output", err)
			}
			return
		}

		records, err := svc.ListRepoHealth(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list health records", err)
		}
		if err := outwriter.WriteHealthRecords(records, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write record output", err)
		}
	},
}
