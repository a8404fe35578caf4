// Package cmd defines the command-line interface for repohealth.
package cmd

import (
	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("token", "t", "", "Fallback API token for source-control requests")
	rootCmd.PersistentFlags().String("install-timeout", "", "Hard timeout for the sandboxed install step (default 2m)")
	rootCmd.PersistentFlags().String("query-timeout", "", "Timeout for audit/outdated queries (default 1m)")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetryAttempts, "Retry attempts for API fetches")
	rootCmd.PersistentFlags().String("retry-base-delay", "", "Base backoff delay between retry attempts (default 300ms)")
	rootCmd.PersistentFlags().String("repo-ttl", "", "Cache TTL for repository summaries (default 5m)")
	rootCmd.PersistentFlags().String("commits-ttl", "", "Cache TTL for commit activity (default 3m)")
	rootCmd.PersistentFlags().String("alerts-ttl", "", "Cache TTL for security alert probes (default 3m)")
	rootCmd.PersistentFlags().Int("max-analyses", contract.DefaultMaxAnalyses, "Maximum concurrent sandboxed dependency analyses")
	rootCmd.PersistentFlags().String("sandbox", string(schema.SandboxAuto), "Sandbox mode: auto or docker or direct")
	rootCmd.PersistentFlags().String("node-image", contract.DefaultNodeImage, "Container image for docker sandboxing")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("api-base-url", contract.DefaultAPIBaseURL, "Source-control API base URL")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().String("manifest-file", "", "Optional package.json, package-lock.json or zip to analyze alongside metadata")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("watch-interval", "", "Interval between re-analysis passes (default 5m)")
	watchCmd.Flags().String("watch-repos", "", "Comma-separated owner/repo list to re-analyze")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
