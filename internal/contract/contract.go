// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/seunfola/repohealth/schema"
)

// MetadataClient defines the read operations against the source-control API.
// This allows the orchestration logic to be tested without network access.
type MetadataClient interface {
	// RepoSummary fetches name, stars, forks, open issues and last push time.
	// A failure here is fatal to the whole analysis.
	RepoSummary(ctx context.Context, owner, repo, token string) (schema.RepoSummary, error)

	// CommitActivity fetches ordered weekly commit totals, most recent last.
	// Failures degrade to an empty slice at the call site.
	CommitActivity(ctx context.Context, owner, repo, token string) ([]int, error)

	// HasSecurityAlerts probes whether vulnerability alerts exist for the repo.
	// Only the endpoint's 204/404 semantics matter, never the alert content.
	HasSecurityAlerts(ctx context.Context, owner, repo, token string) (bool, error)
}

// HealthStore defines the document-style persistence contract for health records.
// This allows the store layer to be mocked for testing.
type HealthStore interface {
	// Upsert atomically replaces the record stored under rec.RepoID.
	Upsert(ctx context.Context, rec *schema.HealthRecord) error

	// Get returns the record stored under repoID, or schema.ErrNotFound.
	Get(ctx context.Context, repoID string) (*schema.HealthRecord, error)

	// List returns all stored records ordered by repo_id.
	List(ctx context.Context) ([]schema.HealthRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// CommandRunner executes an external command in a working directory with a hard
// timeout, returning combined output. The process is killed on expiry.
type CommandRunner interface {
	Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error)
}

// Sandbox wraps npm invocations for one analysis working directory. Two
// implementations exist: direct host execution and ephemeral docker containers.
// The implementation is selected once at startup by capability detection.
type Sandbox interface {
	// RunNPM runs the given npm arguments against workDir inside the sandbox.
	RunNPM(ctx context.Context, workDir string, timeout time.Duration, args ...string) ([]byte, error)

	// Kind reports which sandbox implementation is active.
	Kind() schema.SandboxMode
}
