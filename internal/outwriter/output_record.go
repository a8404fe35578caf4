package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
)

// WriteHealthRecords outputs stored health records, dispatching based on the
// output format configured.
func WriteHealthRecords(records []schema.HealthRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRecordJSONResults(records, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRecordCSVResults(records, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordTable(records, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// WriteHealthRecord outputs a single record using the configured format.
func WriteHealthRecord(rec *schema.HealthRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteHealthRecords([]schema.HealthRecord{*rec}, cfg, duration)
}

// writeRecordJSONResults handles opening the file and calling the JSON writer.
func writeRecordJSONResults(records []schema.HealthRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, records)
	}, "Wrote JSON")
}

// writeRecordCSVResults handles opening the file and calling the CSV writer.
func writeRecordCSVResults(records []schema.HealthRecord, cfg *contract.Config) error {
	fmtFloat := createFloatFormatter(cfg.Precision)
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForRecords(csvWriter, records, fmtFloat)
	}, "Wrote CSV")
}

// writeRecordTable generates and writes the human-readable table.
func writeRecordTable(records []schema.HealthRecord, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	fmtFloat := createFloatFormatter(cfg.Precision)
	table := tablewriter.NewWriter(writer)

	headers := []string{"Repo", "Score", "Label", "Stars", "Forks", "Issues", "Dep Health", "Risky", "Analyzed"}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	riskyWidth := getTerminalWidth(cfg) / 4
	var data [][]string
	for _, rec := range records {
		data = append(data, []string{
			rec.RepoID,
			strconv.Itoa(rec.OverallHealth.Score),
			formatLabel(rec.OverallHealth.Label, cfg.UseColors),
			strconv.Itoa(rec.Stars),
			strconv.Itoa(rec.Forks),
			strconv.Itoa(rec.OpenIssues),
			fmtFloat(rec.DependencyHealth),
			truncateList(rec.RiskyDependencies, riskyWidth),
			rec.AnalyzedAt.Format(time.DateTime),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing %d repositories\n", len(records)); err != nil {
		return err
	}
	if duration > 0 {
		if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForRecords writes stored records in CSV format.
func writeCSVResultsForRecords(w *csv.Writer, records []schema.HealthRecord, fmtFloat func(float64) string) error {
	header := []string{
		"repo_id",
		"name",
		"score",
		"label",
		"stars",
		"forks",
		"open_issues",
		"security_alerts",
		"dependency_health",
		"risky_dependencies",
		"last_pushed",
		"analyzed_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.RepoID,
			rec.Name,
			strconv.Itoa(rec.OverallHealth.Score),
			string(rec.OverallHealth.Label),
			strconv.Itoa(rec.Stars),
			strconv.Itoa(rec.Forks),
			strconv.Itoa(rec.OpenIssues),
			strconv.Itoa(rec.SecurityAlerts),
			fmtFloat(rec.DependencyHealth),
			strings.Join(rec.RiskyDependencies, "|"),
			rec.LastPushed.Format(time.RFC3339),
			rec.AnalyzedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
