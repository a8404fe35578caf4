package core

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
)

var (
	depNamePattern  = regexp.MustCompile(`^[a-zA-Z0-9._@/-]+$`)
	unstablePattern = regexp.MustCompile(`(?i)alpha|beta|rc|snapshot|next`)
)

// Cleanup pacing. Variables so tests can shorten them.
var (
	cleanupGrace     = 5 * time.Second
	cleanupBaseDelay = 500 * time.Millisecond
)

const cleanupAttempts = 3

// analysisManifest is the synthesized package.json written into the working
// directory before the install step.
type analysisManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Private      bool              `json:"private"`
	Dependencies map[string]string `json:"dependencies"`
}

// analyzeDependencies runs the sandboxed install, audit and outdated cycle
// over the given dependency map and builds the risk report. Install failure is
// fatal. Audit and outdated failures degrade to empty results.
func analyzeDependencies(ctx context.Context, sb contract.Sandbox, cfg *contract.Config, deps map[string]string) (*schema.DependencyReport, error) {
	for name := range deps {
		if !depNamePattern.MatchString(name) {
			return nil, fmt.Errorf("%w: %q", schema.ErrInvalidDependencyName, name)
		}
	}

	workDir, err := os.MkdirTemp("", fmt.Sprintf("repohealth-%d-*", time.Now().UnixNano()))
	if err != nil {
		return nil, fmt.Errorf("create analysis dir: %w", err)
	}

	manifest := analysisManifest{
		Name:         "repohealth-analysis",
		Version:      "1.0.0",
		Private:      true,
		Dependencies: deps,
	}
	payload, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		removeWorkDir(workDir)
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(workDir, "package.json"), payload, 0o644); err != nil {
		removeWorkDir(workDir)
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	out, err := sb.RunNPM(ctx, workDir, cfg.InstallTimeout, "install", "--ignore-scripts", "--no-audit")
	if err != nil {
		removeWorkDir(workDir)
		return nil, fmt.Errorf("%w: install: %v: %s", schema.ErrSandbox, err, firstLine(out))
	}

	// Both queries are best-effort. npm outdated exits non-zero whenever
	// anything is outdated, so output is parsed regardless of the exit code.
	outdatedRaw, _ := sb.RunNPM(ctx, workDir, cfg.QueryTimeout, "outdated", "--json")
	auditRaw, _ := sb.RunNPM(ctx, workDir, cfg.QueryTimeout, "audit", "--json")

	defer scheduleCleanup(workDir)

	vulns := parseAudit(auditRaw)
	outdated := parseOutdated(outdatedRaw)

	report := &schema.DependencyReport{
		TotalVulns:      0,
		TotalOutdated:   len(outdated),
		Vulnerabilities: vulns,
		Outdated:        outdated,
		Risky:           sortedKeys(vulns),
		Unstable:        unstableDependencies(deps),
	}
	report.TotalVulns = len(vulns)
	report.Score = dependencyScore(report.TotalVulns, report.TotalOutdated)
	report.Health = schema.DependencyHealthLabel(report.Score)
	return report, nil
}

// dependencyScore applies the vulnerability and staleness penalties.
func dependencyScore(totalVulns, totalOutdated int) float64 {
	return math.Max(0, 100.0-float64(totalVulns)*5.0-float64(totalOutdated)*1.5)
}

// unstableDependencies returns the names whose declared range carries a
// pre-release marker, sorted for stable output.
func unstableDependencies(deps map[string]string) []string {
	var unstable []string
	for name, rangeStr := range deps {
		if unstablePattern.MatchString(rangeStr) {
			unstable = append(unstable, name)
		}
	}
	sort.Strings(unstable)
	return unstable
}

// parseAudit extracts package vulnerabilities from npm audit JSON, preferring
// the modern vulnerabilities section over the legacy advisories one. Malformed
// output degrades to an empty map.
func parseAudit(raw []byte) map[string]schema.PackageVulns {
	result := make(map[string]schema.PackageVulns)

	var report struct {
		Vulnerabilities map[string]struct {
			Severity json.RawMessage   `json:"severity"`
			Via      []json.RawMessage `json:"via"`
		} `json:"vulnerabilities"`
		Advisories map[string]struct {
			ModuleName string          `json:"module_name"`
			Severity   json.RawMessage `json:"severity"`
			Title      string          `json:"title"`
		} `json:"advisories"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return result
	}

	if len(report.Vulnerabilities) > 0 {
		for name, v := range report.Vulnerabilities {
			result[name] = schema.PackageVulns{
				Severity: severityOrDefault(v.Severity),
				Titles:   viaTitles(v.Via),
			}
		}
		return result
	}

	for _, adv := range report.Advisories {
		if adv.ModuleName == "" {
			continue
		}
		entry := result[adv.ModuleName]
		entry.Severity = severityOrDefault(adv.Severity)
		if adv.Title != "" {
			entry.Titles = append(entry.Titles, adv.Title)
		}
		result[adv.ModuleName] = entry
	}
	return result
}

// severityOrDefault decodes a severity value, defaulting to info when the
// field is absent or not a string.
func severityOrDefault(raw json.RawMessage) string {
	var severity string
	if err := json.Unmarshal(raw, &severity); err != nil || severity == "" {
		return "info"
	}
	return severity
}

// viaTitles collects human-readable advisory titles from a via list. Entries
// are either plain strings or advisory objects carrying a title field.
// Anything else is dropped.
func viaTitles(via []json.RawMessage) []string {
	var titles []string
	for _, entry := range via {
		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			if s != "" {
				titles = append(titles, s)
			}
			continue
		}
		var obj struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && obj.Title != "" {
			titles = append(titles, obj.Title)
		}
	}
	return titles
}

// parseOutdated converts npm outdated JSON into name, current and latest
// triples, defaulting missing fields to unknown. Malformed output degrades to
// an empty list.
func parseOutdated(raw []byte) []schema.OutdatedPackage {
	var report map[string]struct {
		Current string `json:"current"`
		Latest  string `json:"latest"`
	}
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil
	}

	outdated := make([]schema.OutdatedPackage, 0, len(report))
	for name, entry := range report {
		pkg := schema.OutdatedPackage{
			Name:    name,
			Current: entry.Current,
			Latest:  entry.Latest,
		}
		if pkg.Current == "" {
			pkg.Current = "unknown"
		}
		if pkg.Latest == "" {
			pkg.Latest = "unknown"
		}
		outdated = append(outdated, pkg)
	}
	sort.Slice(outdated, func(i, j int) bool { return outdated[i].Name < outdated[j].Name })
	return outdated
}

func sortedKeys(m map[string]schema.PackageVulns) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// firstLine trims command output down to its leading line for error messages.
func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}

// scheduleCleanup removes the working directory after a short grace delay so
// lingering file handles from the npm processes can settle.
func scheduleCleanup(workDir string) {
	go func() {
		time.Sleep(cleanupGrace)
		removeWorkDir(workDir)
	}()
}

// removeWorkDir deletes the analysis directory, retrying on transient busy or
// not-empty errors. An already-deleted directory counts as success. Failure is
// logged, never surfaced.
func removeWorkDir(workDir string) {
	delay := cleanupBaseDelay
	var err error
	for range cleanupAttempts {
		err = os.RemoveAll(workDir)
		if err == nil {
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
	contract.LogWarn(fmt.Sprintf("cleanup of %s failed", workDir), err)
}
