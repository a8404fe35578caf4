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

// WriteDependencyReport outputs a manifest-only dependency analysis,
// dispatching based on the output format configured.
func WriteDependencyReport(report *schema.DependencyReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForReport(csvWriter, report)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, w)
		}, "Wrote table")
	}
}

// writeReportTable renders the per-package vulnerability and staleness table
// followed by a summary line.
func writeReportTable(report *schema.DependencyReport, cfg *contract.Config, writer io.Writer) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Package", "Severity", "Advisories", "Current", "Latest"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	latest := make(map[string]schema.OutdatedPackage, len(report.Outdated))
	for _, pkg := range report.Outdated {
		latest[pkg.Name] = pkg
	}

	titleWidth := getTerminalWidth(cfg) / 3
	var data [][]string
	for _, name := range report.Risky {
		vuln := report.Vulnerabilities[name]
		row := []string{name, vuln.Severity, truncateList(vuln.Titles, titleWidth), "-", "-"}
		if pkg, ok := latest[name]; ok {
			row[3] = pkg.Current
			row[4] = pkg.Latest
		}
		data = append(data, row)
	}
	for _, pkg := range report.Outdated {
		if _, risky := report.Vulnerabilities[pkg.Name]; risky {
			continue
		}
		data = append(data, []string{pkg.Name, "-", "-", pkg.Current, pkg.Latest})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Dependency health: %s (%s) with %d vulnerable, %d outdated\n",
		fmtFloat(report.Score), formatLabel(report.Health, cfg.UseColors), report.TotalVulns, report.TotalOutdated); err != nil {
		return err
	}
	if len(report.Unstable) > 0 {
		if _, err := fmt.Fprintf(writer, "Unstable version ranges: %s\n", strings.Join(report.Unstable, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForReport writes per-package rows in CSV format.
func writeCSVResultsForReport(w *csv.Writer, report *schema.DependencyReport) error {
	header := []string{"package", "severity", "advisories", "current", "latest"}
	if err := w.Write(header); err != nil {
		return err
	}

	latest := make(map[string]schema.OutdatedPackage, len(report.Outdated))
	for _, pkg := range report.Outdated {
		latest[pkg.Name] = pkg
	}

	for _, name := range report.Risky {
		vuln := report.Vulnerabilities[name]
		row := []string{name, vuln.Severity, strings.Join(vuln.Titles, "|"), "", ""}
		if pkg, ok := latest[name]; ok {
			row[3] = pkg.Current
			row[4] = pkg.Latest
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	for _, pkg := range report.Outdated {
		if _, risky := report.Vulnerabilities[pkg.Name]; risky {
			continue
		}
		if err := w.Write([]string{pkg.Name, "", "", pkg.Current, pkg.Latest}); err != nil {
			return err
		}
	}
	return nil
}

// WriteStoreStatus prints status information about the record store.
func WriteStoreStatus(status schema.StoreStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, status)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		fmt.Fprintf(w, "Backend: %s\n", status.Backend)
		fmt.Fprintf(w, "Connected: %s\n", strconv.FormatBool(status.Connected))
		fmt.Fprintf(w, "Records: %d\n", status.TotalRecords)
		if status.TotalRecords > 0 {
			fmt.Fprintf(w, "Oldest analysis: %s\n", status.OldestAnalysis.Format(time.DateTime))
			fmt.Fprintf(w, "Latest analysis: %s\n", status.LatestAnalysis.Format(time.DateTime))
		}
		if status.TableSizeBytes > 0 {
			fmt.Fprintf(w, "Size: %d bytes\n", status.TableSizeBytes)
		}
		return nil
	}, "Wrote status")
}
