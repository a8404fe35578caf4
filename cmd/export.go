package cmd

import (
	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/healthstore"
	"github.com/spf13/cobra"
)

// exportCmd exports stored records to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to Parquet for BI tools and analytics",
	Long: `Export all stored health records to Parquet format for use with
analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all records
  repohealth export --output-file health-records.parquet

  # Use with DuckDB for analysis
  repohealth export --output-file records.parquet
  duckdb -c "SELECT repo_id, overall_score FROM read_parquet('records.parquet') ORDER BY overall_score"`,
	Args:    cobra.NoArgs,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := healthstore.ExecuteExport(rootCtx, store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export health records", err)
		}
	},
}
