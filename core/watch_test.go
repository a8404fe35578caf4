package core

import (
	"context"
	"testing"
	"time"

	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/assert"
)

func TestWatchRequiresRepos(t *testing.T) {
	svc := newTestService(&fakeClient{}, newFakeStore())

	err := svc.Watch(context.Background(), nil, time.Minute)
	assert.Error(t, err)
}

func TestWatchRunsImmediatePass(t *testing.T) {
	client := &fakeClient{summary: schema.RepoSummary{Name: "go", Stars: 100}}
	store := newFakeStore()
	svc := newTestService(client, store)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Interval longer than the deadline means only the immediate pass runs.
	err := svc.Watch(ctx, []string{"golang/go"}, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, store.upserts)

	rec, err := svc.FindRepoHealth(context.Background(), "golang", "go")
	assert.NoError(t, err)
	assert.Equal(t, "golang/go", rec.RepoID)
}

func TestWatchSkipsFailingRepos(t *testing.T) {
	client := &fakeClient{summaryErr: schema.ErrUpstream}
	store := newFakeStore()
	svc := newTestService(client, store)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// Malformed entries and upstream failures are both skipped without
	// stopping the loop.
	err := svc.Watch(ctx, []string{"not-a-repo", "golang/go"}, time.Hour)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, store.upserts)
}
