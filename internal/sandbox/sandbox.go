package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/schema"
)

const dockerSocket = "/var/run/docker.sock"

// Direct runs npm straight on the host. Used when docker is unavailable or
// explicitly requested.
type Direct struct {
	runner contract.CommandRunner
}

var _ contract.Sandbox = &Direct{}

// NewDirect returns a host-execution sandbox backed by runner.
func NewDirect(runner contract.CommandRunner) *Direct {
	return &Direct{runner: runner}
}

func (s *Direct) RunNPM(ctx context.Context, workDir string, timeout time.Duration, args ...string) ([]byte, error) {
	return s.runner.Run(ctx, workDir, timeout, "npm", args...)
}

func (s *Direct) Kind() schema.SandboxMode {
	return schema.SandboxDirect
}

// Docker runs npm inside an ephemeral container. The working directory is
// bind-mounted so lockfiles and node_modules land back on the host for
// inspection and cleanup.
type Docker struct {
	runner contract.CommandRunner
	image  string
}

var _ contract.Sandbox = &Docker{}

// NewDocker returns a container-execution sandbox using the given node image.
func NewDocker(runner contract.CommandRunner, image string) *Docker {
	return &Docker{runner: runner, image: image}
}

func (s *Docker) RunNPM(ctx context.Context, workDir string, timeout time.Duration, args ...string) ([]byte, error) {
	dockerArgs := []string{
		"run", "--rm",
		"-v", fmt.Sprintf("%s:/analysis", workDir),
		"-w", "/analysis",
		s.image,
		"npm",
	}
	dockerArgs = append(dockerArgs, args...)
	return s.runner.Run(ctx, workDir, timeout, "docker", dockerArgs...)
}

func (s *Docker) Kind() schema.SandboxMode {
	return schema.SandboxDocker
}

// Select resolves the configured sandbox mode into an implementation. Auto
// prefers docker when both the binary and the daemon socket are present,
// falling back to direct host execution otherwise.
func Select(mode schema.SandboxMode, image string, runner contract.CommandRunner) contract.Sandbox {
	switch mode {
	case schema.SandboxDocker:
		return NewDocker(runner, image)
	case schema.SandboxDirect:
		return NewDirect(runner)
	default:
		if dockerAvailable() {
			return NewDocker(runner, image)
		}
		return NewDirect(runner)
	}
}

func dockerAvailable() bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	if _, err := os.Stat(dockerSocket); err != nil {
		return false
	}
	return true
}
