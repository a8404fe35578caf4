package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/outwriter"
	"github.com/seunfola/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// analyzeCmd analyzes one repository and stores the resulting record.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner/repo | url>",
	Short: "Analyze a repository's health and store the record.",
	Long: `Fetch repository metadata, optionally run a sandboxed dependency analysis,
compute the weighted health score and upsert the record into the store.

Accepts either an owner/repo pair or a repository URL
(https://github.com/owner/repo or git@github.com:owner/repo).

Examples:
  # Analyze by owner/repo
  repohealth analyze golang/go

  # Analyze by URL with a manifest for dependency scoring
  repohealth analyze https://github.com/expressjs/express --manifest-file package.json

  # Export the record as JSON
  repohealth analyze golang/go --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		start := time.Now()

		var manifest []byte
		manifestName := ""
		if path := viper.GetString("manifest-file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				contract.LogFatal("Cannot read manifest file", err)
			}
			manifest = data
			manifestName = filepath.Base(path)
		}

		target := args[0]
		var rec *schema.HealthRecord
		var err error
		if strings.Contains(target, "://") || strings.HasPrefix(target, "git@") {
			rec, err = svc.AnalyzeRepoURL(rootCtx, target, manifest, manifestName, cfg.Token)
		} else {
			owner, repo, ok := strings.Cut(target, "/")
			if !ok {
				contract.LogFatal("Cannot parse target", schema.ErrInvalidRepoURL)
			}
			rec, err = svc.AnalyzeRepo(rootCtx, owner, repo, manifest, manifestName, cfg.Token)
		}
		if err != nil {
			contract.LogFatal("Cannot analyze repository", err)
		}

		if err := outwriter.WriteHealthRecord(rec, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write analysis output", err)
		}
	},
}
