package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/gate"
	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	summary     schema.RepoSummary
	summaryErr  error
	activity    []int
	activityErr error
	alerts      bool
	alertsErr   error
}

func (f *fakeClient) RepoSummary(context.Context, string, string, string) (schema.RepoSummary, error) {
	return f.summary, f.summaryErr
}

func (f *fakeClient) CommitActivity(context.Context, string, string, string) ([]int, error) {
	return f.activity, f.activityErr
}

func (f *fakeClient) HasSecurityAlerts(context.Context, string, string, string) (bool, error) {
	return f.alerts, f.alertsErr
}

type fakeStore struct {
	records map[string]*schema.HealthRecord
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*schema.HealthRecord)}
}

func (f *fakeStore) Upsert(_ context.Context, rec *schema.HealthRecord) error {
	f.upserts++
	f.records[rec.RepoID] = rec
	return nil
}

func (f *fakeStore) Get(_ context.Context, repoID string) (*schema.HealthRecord, error) {
	rec, ok := f.records[repoID]
	if !ok {
		return nil, schema.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) List(context.Context) ([]schema.HealthRecord, error) {
	out := make([]schema.HealthRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeStore) GetStatus() (schema.StoreStatus, error) {
	return schema.StoreStatus{Backend: "fake", Connected: true, TotalRecords: len(f.records)}, nil
}

func (f *fakeStore) Close() error { return nil }

func newTestService(client contract.MetadataClient, store contract.HealthStore) *Service {
	cfg := testConfig()
	cfg.MaxAnalyses = contract.DefaultMaxAnalyses
	return NewService(cfg, client, store, &fakeSandbox{})
}

func TestAnalyzeRepoStoresRecord(t *testing.T) {
	client := &fakeClient{
		summary: schema.RepoSummary{
			Name:       "bar",
			Stars:      10000,
			Forks:      500,
			OpenIssues: 5,
			LastPushed: time.Now(),
		},
		activity: []int{10, 20, 30},
	}
	store := newFakeStore()
	svc := newTestService(client, store)

	rec, err := svc.AnalyzeRepo(context.Background(), "foo", "bar", nil, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "foo/bar", rec.RepoID)
	assert.Equal(t, "bar", rec.Name)
	assert.Equal(t, []int{10, 20, 30}, rec.CommitActivity)
	assert.Equal(t, 100.0, rec.DependencyHealth)
	assert.Equal(t, 0, rec.SecurityAlerts)
	assert.False(t, rec.AnalyzedAt.IsZero())
	assert.Equal(t, 1, store.upserts)

	stored, err := svc.FindRepoHealth(context.Background(), "foo", "bar")
	assert.NoError(t, err)
	assert.Equal(t, rec, stored)
}

func TestAnalyzeRepoWithManifest(t *testing.T) {
	client := &fakeClient{summary: schema.RepoSummary{Name: "bar", Stars: 100}}
	store := newFakeStore()
	svc := newTestService(client, store)
	manifest := []byte(`{"dependencies": {"left-pad": "1.3.0"}}`)

	rec, err := svc.AnalyzeRepo(context.Background(), "foo", "bar", manifest, "package.json", "")
	assert.NoError(t, err)
	assert.Equal(t, 100.0, rec.DependencyHealth)
	assert.Empty(t, rec.RiskyDependencies)
}

func TestAnalyzeRepoSummaryFailureIsFatal(t *testing.T) {
	client := &fakeClient{summaryErr: schema.ErrUpstream}
	store := newFakeStore()
	svc := newTestService(client, store)

	_, err := svc.AnalyzeRepo(context.Background(), "foo", "bar", nil, "", "")
	assert.ErrorIs(t, err, schema.ErrUpstream)
	assert.Zero(t, store.upserts)
}

func TestAnalyzeRepoSecondarySignalsDegrade(t *testing.T) {
	client := &fakeClient{
		summary:     schema.RepoSummary{Name: "bar", Stars: 50},
		activityErr: errors.New("stats pending"),
		alertsErr:   errors.New("forbidden"),
	}
	store := newFakeStore()
	svc := newTestService(client, store)

	rec, err := svc.AnalyzeRepo(context.Background(), "foo", "bar", nil, "", "")
	assert.NoError(t, err)
	assert.Empty(t, rec.CommitActivity)
	assert.Equal(t, 0, rec.SecurityAlerts)
}

func TestAnalyzeRepoSecurityAlertCount(t *testing.T) {
	client := &fakeClient{summary: schema.RepoSummary{Name: "bar"}, alerts: true}
	store := newFakeStore()
	svc := newTestService(client, store)

	rec, err := svc.AnalyzeRepo(context.Background(), "foo", "bar", nil, "", "")
	assert.NoError(t, err)
	assert.Equal(t, 1, rec.SecurityAlerts)
}

func TestAnalyzeRepoURL(t *testing.T) {
	client := &fakeClient{summary: schema.RepoSummary{Name: "bar"}}
	store := newFakeStore()
	svc := newTestService(client, store)

	rec, err := svc.AnalyzeRepoURL(context.Background(), "https://github.com/foo/bar", nil, "", "")
	assert.NoError(t, err)
	assert.Equal(t, "foo/bar", rec.RepoID)

	_, err = svc.AnalyzeRepoURL(context.Background(), "ftp://example.com/foo/bar", nil, "", "")
	assert.ErrorIs(t, err, schema.ErrInvalidRepoURL)
}

func TestAnalyzeManifestOnlySkipsStore(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeClient{}, store)

	report, err := svc.AnalyzeManifestOnly(context.Background(), []byte(`{"dependencies": {"left-pad": "1.3.0"}}`))
	assert.NoError(t, err)
	assert.Equal(t, 100.0, report.Score)
	assert.Zero(t, store.upserts)
}

func TestFindRepoHealthNotFound(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeStore())

	_, err := svc.FindRepoHealth(context.Background(), "foo", "missing")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestAnalyzeManifestRunsUnderGate(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeStore())
	svc.gate = gate.New(1)

	_, err := svc.AnalyzeManifestOnly(context.Background(), []byte(`{"dependencies": {"left-pad": "1.3.0"}}`))
	assert.NoError(t, err)
	assert.Zero(t, svc.gate.InUse(), "permit must be released after analysis")
}
