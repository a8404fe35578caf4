// Package parquet provides data structures and functions for exporting stored
// health records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/seunfola/repohealth/schema"
)

// HealthRow represents a single repository health record for export.
// This struct maps to the repohealth_records document store.
type HealthRow struct {
	// RepoID is the canonical owner/repo key
	RepoID string `parquet:"repo_id,snappy"`

	// Name is the repository name reported by the source-control API
	Name string `parquet:"name,snappy"`

	Stars      int32 `parquet:"stars,snappy"`
	Forks      int32 `parquet:"forks,snappy"`
	OpenIssues int32 `parquet:"open_issues,snappy"`

	// LastPushed is the last push time (stored as TIMESTAMP with nanosecond precision)
	LastPushed time.Time `parquet:"last_pushed,snappy"`

	// SecurityAlerts is the detected vulnerability-alert count
	SecurityAlerts int32 `parquet:"security_alerts,snappy"`

	// DependencyHealth is the 0-100 dependency score
	DependencyHealth float64 `parquet:"dependency_health,snappy"`

	// RiskyDependencies is the pipe-joined list of vulnerable package names (nullable)
	RiskyDependencies *string `parquet:"risky_dependencies,optional,snappy"`

	// OverallScore is the composite weighted 0-100 score
	OverallScore int32 `parquet:"overall_score,snappy"`

	// OverallLabel is the qualitative health label
	OverallLabel string `parquet:"overall_label,snappy"`

	// AnalyzedAt is when the record was produced
	AnalyzedAt time.Time `parquet:"analyzed_at,snappy"`
}

// WriteHealthRowsParquet writes a slice of HealthRow structs to a Parquet file.
func WriteHealthRowsParquet(data []HealthRow, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the HealthRow struct tags
	writer := parquet.NewGenericWriter[HealthRow](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertHealthRecords converts schema.HealthRecord to HealthRow for Parquet export.
func ConvertHealthRecords(records []schema.HealthRecord) []HealthRow {
	result := make([]HealthRow, len(records))
	for i, record := range records {
		var risky *string
		if len(record.RiskyDependencies) > 0 {
			joined := strings.Join(record.RiskyDependencies, "|")
			risky = &joined
		}
		result[i] = HealthRow{
			RepoID:            record.RepoID,
			Name:              record.Name,
			Stars:             int32(record.Stars),
			Forks:             int32(record.Forks),
			OpenIssues:        int32(record.OpenIssues),
			LastPushed:        record.LastPushed,
			SecurityAlerts:    int32(record.SecurityAlerts),
			DependencyHealth:  record.DependencyHealth,
			RiskyDependencies: risky,
			OverallScore:      int32(record.OverallHealth.Score),
			OverallLabel:      string(record.OverallHealth.Label),
			AnalyzedAt:        record.AnalyzedAt,
		}
	}
	return result
}
