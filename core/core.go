// Package core has the orchestration, extraction, analysis and scoring logic
// for repository health.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/gate"
	"github.com/seunfola/repohealth/internal/ghapi"
	"github.com/seunfola/repohealth/schema"
)

// Service coordinates metadata fetching, sandboxed dependency analysis,
// scoring and persistence. All collaborators are injected so tests run
// without network, processes or a real store.
type Service struct {
	cfg     *contract.Config
	client  contract.MetadataClient
	store   contract.HealthStore
	sandbox contract.Sandbox
	gate    *gate.Gate

	now func() time.Time
}

// NewService builds a Service with its own concurrency gate.
func NewService(cfg *contract.Config, client contract.MetadataClient, store contract.HealthStore, sandbox contract.Sandbox) *Service {
	return &Service{
		cfg:     cfg,
		client:  client,
		store:   store,
		sandbox: sandbox,
		gate:    gate.New(cfg.MaxAnalyses),
		now:     time.Now,
	}
}

// AnalyzeRepo fetches metadata for owner/repo, optionally analyzes the given
// manifest, computes the overall score and atomically upserts the record.
// A nil manifest skips dependency analysis and scores dependencies at 100.
func (s *Service) AnalyzeRepo(ctx context.Context, owner, repo string, manifest []byte, fileName, token string) (*schema.HealthRecord, error) {
	summary, err := s.client.RepoSummary(ctx, owner, repo, token)
	if err != nil {
		return nil, err
	}

	// Secondary signals degrade to safe defaults.
	commitActivity, err := s.client.CommitActivity(ctx, owner, repo, token)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("commit activity for %s/%s unavailable", owner, repo), err)
		commitActivity = []int{}
	}
	hasAlerts, err := s.client.HasSecurityAlerts(ctx, owner, repo, token)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("security alert probe for %s/%s unavailable", owner, repo), err)
		hasAlerts = false
	}

	depScore := 100.0
	var risky []string
	if manifest != nil {
		report, err := s.analyzeManifest(ctx, manifest, fileName)
		if err != nil {
			return nil, err
		}
		depScore = report.Score
		risky = report.Risky
	}

	overall := computeOverallHealth(summary, commitActivity, hasAlerts, depScore, s.now())

	alertCount := 0
	if hasAlerts {
		alertCount = 1
	}
	record := &schema.HealthRecord{
		RepoID:            contract.RepoID(owner, repo),
		Owner:             owner,
		Repo:              repo,
		Name:              summary.Name,
		Stars:             summary.Stars,
		Forks:             summary.Forks,
		OpenIssues:        summary.OpenIssues,
		LastPushed:        summary.LastPushed,
		CommitActivity:    commitActivity,
		SecurityAlerts:    alertCount,
		DependencyHealth:  depScore,
		RiskyDependencies: risky,
		OverallHealth:     overall,
		AnalyzedAt:        s.now(),
	}

	if err := s.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("store health record for %s: %w", record.RepoID, err)
	}
	return record, nil
}

// AnalyzeRepoURL resolves a repository URL and runs AnalyzeRepo.
func (s *Service) AnalyzeRepoURL(ctx context.Context, url string, manifest []byte, fileName, token string) (*schema.HealthRecord, error) {
	owner, repo, err := ghapi.ParseRepoURL(url)
	if err != nil {
		return nil, err
	}
	return s.AnalyzeRepo(ctx, owner, repo, manifest, fileName, token)
}

// AnalyzeManifestOnly runs the dependency analysis for a raw manifest without
// touching the source-control API or the store.
func (s *Service) AnalyzeManifestOnly(ctx context.Context, raw []byte) (*schema.DependencyReport, error) {
	return s.analyzeManifest(ctx, raw, "package.json")
}

// AnalyzeManifestFile runs the dependency analysis for an uploaded file,
// dispatching on its name. Zip archives are scanned for manifests.
func (s *Service) AnalyzeManifestFile(ctx context.Context, name string, data []byte) (*schema.DependencyReport, error) {
	return s.analyzeManifest(ctx, data, name)
}

// analyzeManifest extracts dependencies and runs the sandboxed analyzer under
// the concurrency gate. Callers queue rather than being rejected.
func (s *Service) analyzeManifest(ctx context.Context, data []byte, fileName string) (*schema.DependencyReport, error) {
	deps, err := ExtractDependenciesFromFile(fileName, data)
	if err != nil {
		return nil, err
	}

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return analyzeDependencies(ctx, s.sandbox, s.cfg, deps)
}

// FindRepoHealth returns the stored record for owner/repo, or
// schema.ErrNotFound when no analysis has been stored.
func (s *Service) FindRepoHealth(ctx context.Context, owner, repo string) (*schema.HealthRecord, error) {
	return s.store.Get(ctx, contract.RepoID(owner, repo))
}

// ListRepoHealth returns all stored records ordered by repo_id.
func (s *Service) ListRepoHealth(ctx context.Context) ([]schema.HealthRecord, error) {
	return s.store.List(ctx)
}
