package sandbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seunfola/repohealth/schema"
	"github.com/stretchr/testify/assert"
)

// fakeRunner records the last invocation and replays canned output.
type fakeRunner struct {
	dir    string
	name   string
	args   []string
	output []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, dir string, _ time.Duration, name string, args ...string) ([]byte, error) {
	f.dir = dir
	f.name = name
	f.args = args
	return f.output, f.err
}

func TestDirectRunNPM(t *testing.T) {
	runner := &fakeRunner{output: []byte("{}")}
	s := NewDirect(runner)

	out, err := s.RunNPM(context.Background(), "/tmp/work", time.Second, "audit", "--json")
	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), out)
	assert.Equal(t, "/tmp/work", runner.dir)
	assert.Equal(t, "npm", runner.name)
	assert.Equal(t, []string{"audit", "--json"}, runner.args)
	assert.Equal(t, schema.SandboxDirect, s.Kind())
}

func TestDockerRunNPM(t *testing.T) {
	runner := &fakeRunner{}
	s := NewDocker(runner, "node:20-alpine")

	_, err := s.RunNPM(context.Background(), "/tmp/work", time.Second, "install", "--ignore-scripts")
	assert.NoError(t, err)
	assert.Equal(t, "docker", runner.name)
	assert.Equal(t, []string{
		"run", "--rm",
		"-v", "/tmp/work:/analysis",
		"-w", "/analysis",
		"node:20-alpine",
		"npm", "install", "--ignore-scripts",
	}, runner.args)
	assert.Equal(t, schema.SandboxDocker, s.Kind())
}

func TestDockerRunNPMPropagatesError(t *testing.T) {
	wantErr := errors.New("exit status 1")
	runner := &fakeRunner{output: []byte("npm ERR!"), err: wantErr}
	s := NewDocker(runner, "node:20-alpine")

	out, err := s.RunNPM(context.Background(), "/tmp/work", time.Second, "install")
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, []byte("npm ERR!"), out)
}

func TestSelectExplicitModes(t *testing.T) {
	runner := &fakeRunner{}

	s := Select(schema.SandboxDirect, "node:20-alpine", runner)
	assert.Equal(t, schema.SandboxDirect, s.Kind())

	s = Select(schema.SandboxDocker, "node:20-alpine", runner)
	assert.Equal(t, schema.SandboxDocker, s.Kind())
}
