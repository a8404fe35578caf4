// Package sandbox executes npm commands for dependency analysis, either
// directly on the host or inside ephemeral docker containers.
package sandbox

import (
	"context"
	"os/exec"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
)

// ExecRunner runs commands on the host with a hard timeout.
type ExecRunner struct{}

var _ contract.CommandRunner = &ExecRunner{}

// Run executes name with args in dir, killing the process when the timeout
// expires. Combined stdout and stderr are returned even on failure so callers
// can salvage partial JSON output.
func (r *ExecRunner) Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 5 * time.Second
	return cmd.CombinedOutput()
}
