package healthstore

import (
	"context"
	"testing"
	"time"

	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(repoID string, analyzedAt time.Time) *schema.HealthRecord {
	return &schema.HealthRecord{
		RepoID:            repoID,
		Owner:             "foo",
		Repo:              "bar",
		Name:              "bar",
		Stars:             100,
		Forks:             10,
		CommitActivity:    []int{1, 2, 3},
		DependencyHealth:  85.5,
		RiskyDependencies: []string{"lodash"},
		OverallHealth:     schema.OverallHealth{Score: 78, Label: schema.GoodHealth},
		AnalyzedAt:        analyzedAt,
	}
}

func TestStore_NoneBackend(t *testing.T) {
	store, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	ctx := context.Background()
	assert.NoError(t, store.Upsert(ctx, sampleRecord("foo/bar", time.Now())))

	_, err = store.Get(ctx, "foo/bar")
	assert.ErrorIs(t, err, schema.ErrNotFound)

	records, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, records)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()
	analyzedAt := time.Now().Truncate(time.Second)

	rec := sampleRecord("foo/bar", analyzedAt)
	require.NoError(t, store.Upsert(ctx, rec))

	got, err := store.Get(ctx, "foo/bar")
	require.NoError(t, err)
	assert.Equal(t, rec.RepoID, got.RepoID)
	assert.Equal(t, rec.Stars, got.Stars)
	assert.Equal(t, rec.CommitActivity, got.CommitActivity)
	assert.Equal(t, rec.RiskyDependencies, got.RiskyDependencies)
	assert.Equal(t, rec.OverallHealth, got.OverallHealth)
}

func TestStore_UpsertReplaces(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	first := sampleRecord("foo/bar", time.Now())
	require.NoError(t, store.Upsert(ctx, first))

	second := sampleRecord("foo/bar", time.Now())
	second.Stars = 9999
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.Get(ctx, "foo/bar")
	require.NoError(t, err)
	assert.Equal(t, 9999, got.Stars)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_GetMissing(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.Get(context.Background(), "missing/repo")
	assert.ErrorIs(t, err, schema.ErrNotFound)
}

func TestStore_ListOrdered(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, sampleRecord("zeta/z", time.Now())))
	require.NoError(t, store.Upsert(ctx, sampleRecord("alpha/a", time.Now())))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpha/a", records[0].RepoID)
	assert.Equal(t, "zeta/z", records[1].RepoID)
}

func TestStore_Clear(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, sampleRecord("foo/bar", time.Now())))
	require.NoError(t, store.Clear(ctx))

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRecords)

	older := sampleRecord("foo/bar", time.Now().Add(-time.Hour))
	newer := sampleRecord("foo/baz", time.Now())
	require.NoError(t, store.Upsert(ctx, older))
	require.NoError(t, store.Upsert(ctx, newer))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRecords)
	assert.True(t, status.OldestAnalysis.Before(status.LatestAnalysis))
	assert.Greater(t, status.TableSizeBytes, int64(0))
}

func TestStore_UnsupportedBackend(t *testing.T) {
	_, err := NewStore(schema.DatabaseBackend("oracle"), "")
	assert.Error(t, err)
}
