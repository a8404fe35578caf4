package cmd

import (
	"os"
	"path/filepath"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/outwriter"
	"github.com/spf13/cobra"
)

// manifestCmd analyzes a dependency manifest without touching the API.
var manifestCmd = &cobra.Command{
	Use:   "manifest <file>",
	Short: "Analyze a dependency manifest on its own.",
	Long: `Run the sandboxed dependency analysis for a single manifest file and
print the resulting report. No repository metadata is fetched and no
record is stored.

Accepts package.json, package-lock.json, or a zip archive containing
either of them.

Examples:
  # Analyze a project manifest
  repohealth manifest ./package.json

  # Analyze a lockfile from a downloaded release archive
  repohealth manifest ./release.zip --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			contract.LogFatal("Cannot read manifest file", err)
		}

		report, err := svc.AnalyzeManifestFile(rootCtx, filepath.Base(args[0]), data)
		if err != nil {
			contract.LogFatal("Cannot analyze manifest", err)
		}

		if err := outwriter.WriteDependencyReport(report, cfg); err != nil {
			contract.LogFatal("Cannot write dependency report", err)
		}
	},
}
