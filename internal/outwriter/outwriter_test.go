package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOutputConfig() *contract.Config {
	return &contract.Config{
		Output:    schema.TextOut,
		Precision: 1,
		Width:     120,
	}
}

func sampleRecord() schema.HealthRecord {
	return schema.HealthRecord{
		RepoID:            "foo/bar",
		Owner:             "foo",
		Repo:              "bar",
		Name:              "bar",
		Stars:             1234,
		Forks:             56,
		OpenIssues:        7,
		LastPushed:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		SecurityAlerts:    1,
		DependencyHealth:  85.5,
		RiskyDependencies: []string{"lodash", "minimist"},
		OverallHealth:     schema.OverallHealth{Score: 78, Label: schema.GoodHealth},
		AnalyzedAt:        time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestWriteRecordTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testOutputConfig()

	err := writeRecordTable([]schema.HealthRecord{sampleRecord()}, cfg, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "foo/bar")
	assert.Contains(t, out, "78")
	assert.Contains(t, out, "Good")
	assert.Contains(t, out, "lodash, minimist")
	assert.Contains(t, out, "Showing 1 repositories")
}

func TestWriteCSVResultsForRecords(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat := createFloatFormatter(1)

	csvWriter := csv.NewWriter(&buf)
	err := writeCSVResultsForRecords(csvWriter, []schema.HealthRecord{sampleRecord()}, fmtFloat)
	csvWriter.Flush()
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "repo_id", records[0][0])
	assert.Equal(t, "foo/bar", records[1][0])
	assert.Equal(t, "78", records[1][2])
	assert.Equal(t, "Good", records[1][3])
	assert.Equal(t, "85.5", records[1][8])
	assert.Equal(t, "lodash|minimist", records[1][9])
}

func TestWriteReportTable(t *testing.T) {
	var buf bytes.Buffer
	cfg := testOutputConfig()

	report := &schema.DependencyReport{
		Score:         85.5,
		Health:        schema.ExcellentHealth,
		TotalVulns:    1,
		TotalOutdated: 2,
		Risky:         []string{"lodash"},
		Vulnerabilities: map[string]schema.PackageVulns{
			"lodash": {Severity: "high", Titles: []string{"Prototype Pollution"}},
		},
		Outdated: []schema.OutdatedPackage{
			{Name: "left-pad", Current: "1.2.0", Latest: "1.3.0"},
			{Name: "lodash", Current: "4.17.0", Latest: "4.17.21"},
		},
		Unstable: []string{"react"},
	}

	err := writeReportTable(report, cfg, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "lodash")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "Prototype Pollution")
	assert.Contains(t, out, "left-pad")
	assert.Contains(t, out, "Dependency health: 85.5")
	assert.Contains(t, out, "1 vulnerable, 2 outdated")
	assert.Contains(t, out, "Unstable version ranges: react")
}

func TestTruncateList(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		width int
		want  string
	}{
		{name: "empty", names: nil, width: 20, want: "-"},
		{name: "fits", names: []string{"a", "b"}, width: 20, want: "a, b"},
		{name: "truncated", names: []string{"left-pad", "lodash", "minimist"}, width: 12, want: "left-pad,..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateList(tt.names, tt.width))
		})
	}
}

func TestGetTerminalWidthOverride(t *testing.T) {
	cfg := testOutputConfig()
	cfg.Width = 42
	assert.Equal(t, 42, getTerminalWidth(cfg))
}

func TestFormatLabelPlain(t *testing.T) {
	assert.Equal(t, "Excellent", formatLabel(schema.ExcellentHealth, false))
}
