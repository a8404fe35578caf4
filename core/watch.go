package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
)

// Watch re-analyzes the tracked repositories on a fixed interval until ctx is
// cancelled. One pass runs immediately. A failing repository is logged and
// skipped so it never halts the loop.
func (s *Service) Watch(ctx context.Context, repos []string, interval time.Duration) error {
	if len(repos) == 0 {
		return fmt.Errorf("no repositories to watch")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.watchPass(ctx, repos)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.watchPass(ctx, repos)
		}
	}
}

// watchPass analyzes each tracked repository once, metadata only.
func (s *Service) watchPass(ctx context.Context, repos []string) {
	for _, entry := range repos {
		owner, repo, ok := strings.Cut(entry, "/")
		if !ok {
			contract.LogInfo(fmt.Sprintf("skipping malformed watch entry %q", entry))
			continue
		}
		if _, err := s.AnalyzeRepo(ctx, owner, repo, nil, "", ""); err != nil {
			contract.LogWarn(fmt.Sprintf("re-analysis of %s failed", entry), err)
		}
	}
}
