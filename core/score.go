package core

import (
	"math"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
)

// computeOverallHealth combines repository metadata and the dependency score
// into one weighted 0-100 score with a qualitative label. It is deterministic
// and side-effect free.
func computeOverallHealth(summary schema.RepoSummary, commitActivity []int, hasAlerts bool, dependencyScore float64, now time.Time) schema.OverallHealth {
	// Tunable maxima to normalize signals.
	const (
		maxStars         = 5000.0
		maxForks         = 1000.0
		maxRecentCommits = 100.0
		recencyWindow    = 365.0
	)

	const (
		wStars    = 0.20
		wForks    = 0.15
		wRecency  = 0.15
		wCommits  = 0.20
		wDepScore = 0.15
		wIssues   = 0.10
		wSecurity = 0.05
	)

	clamp01 := func(v float64) float64 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return v
	}

	nStars := clamp01(float64(summary.Stars) / maxStars)
	nForks := clamp01(float64(summary.Forks) / maxForks)

	var nRecency float64
	if !summary.LastPushed.IsZero() {
		days := now.Sub(summary.LastPushed).Hours() / 24.0
		nRecency = clamp01(1.0 - days/recencyWindow)
	}

	nCommits := clamp01(float64(recentCommitCount(commitActivity)) / maxRecentCommits)
	nDepScore := clamp01(dependencyScore / 100.0)

	// Open issues penalize relative to popularity, never below zero.
	issueRatio := float64(summary.OpenIssues) / float64(summary.Stars+1)
	nIssues := clamp01(1.0 - issueRatio*0.5)

	nSecurity := 1.0
	if hasAlerts {
		nSecurity = 0.5
	}

	sum := wStars*nStars +
		wForks*nForks +
		wRecency*nRecency +
		wCommits*nCommits +
		wDepScore*nDepScore +
		wIssues*nIssues +
		wSecurity*nSecurity

	score := int(math.Round(math.Min(math.Max(sum*100.0, 0), 100)))
	return schema.OverallHealth{
		Score: score,
		Label: schema.OverallHealthLabel(score),
	}
}

// recentCommitCount sums the most recent weeks of activity. Totals arrive
// ordered oldest first, so the tail is the recent window.
func recentCommitCount(weekly []int) int {
	start := len(weekly) - contract.RecentWeeks
	if start < 0 {
		start = 0
	}
	total := 0
	for _, n := range weekly[start:] {
		total += n
	}
	return total
}
