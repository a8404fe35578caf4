// Package schema has models, labels and shared constants for all parts of repohealth.
package schema

import "time"

// RepoSummary holds the repository metadata fetched from the source-control API.
type RepoSummary struct {
	Name       string    `json:"name"`
	Stars      int       `json:"stars"`
	Forks      int       `json:"forks"`
	OpenIssues int       `json:"open_issues"`
	LastPushed time.Time `json:"last_pushed"`
}

// PackageVulns describes the detected vulnerabilities for a single package.
type PackageVulns struct {
	Severity string   `json:"severity"`
	Titles   []string `json:"titles"`
}

// OutdatedPackage describes a package whose installed version lags the registry.
type OutdatedPackage struct {
	Name    string `json:"name"`
	Current string `json:"current"`
	Latest  string `json:"latest"`
}

// DependencyReport is the result of one sandboxed dependency analysis.
// It is computed per request and folded into the stored HealthRecord.
type DependencyReport struct {
	Score           float64                 `json:"score"`
	Health          HealthLabel             `json:"health"`
	TotalVulns      int                     `json:"total_vulns"`
	TotalOutdated   int                     `json:"total_outdated"`
	Risky           []string                `json:"risky"`
	Vulnerabilities map[string]PackageVulns `json:"vulnerabilities"`
	Outdated        []OutdatedPackage       `json:"outdated"`
	Unstable        []string                `json:"unstable"`
}

// OverallHealth is the composite weighted score with its qualitative label.
type OverallHealth struct {
	Score int         `json:"score"`
	Label HealthLabel `json:"label"`
}

// HealthRecord is the persisted analysis document, keyed by RepoID.
// It is replaced atomically on every analysis run.
type HealthRecord struct {
	RepoID            string        `json:"repo_id"`
	Owner             string        `json:"owner"`
	Repo              string        `json:"repo"`
	Name              string        `json:"name"`
	Stars             int           `json:"stars"`
	Forks             int           `json:"forks"`
	OpenIssues        int           `json:"open_issues"`
	LastPushed        time.Time     `json:"last_pushed"`
	CommitActivity    []int         `json:"commit_activity"`
	SecurityAlerts    int           `json:"security_alerts"`
	DependencyHealth  float64       `json:"dependency_health"`
	RiskyDependencies []string      `json:"risky_dependencies"`
	OverallHealth     OverallHealth `json:"overall_health"`
	AnalyzedAt        time.Time     `json:"analyzed_at"`
}

// StoreStatus holds status information about the health record store.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalRecords   int       `json:"total_records"`
	OldestAnalysis time.Time `json:"oldest_analysis"`
	LatestAnalysis time.Time `json:"latest_analysis"`
	TableSizeBytes int64     `json:"table_size_bytes"`
}
