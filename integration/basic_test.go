//go:build basic

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionCommand verifies the binary builds and reports its version.
func TestVersionCommand(t *testing.T) {
	require.NoError(t, runRepohealthCommand(t, "version"))
}

// TestStoreLifecycleSQLite exercises the store commands against a scratch SQLite file.
func TestStoreLifecycleSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "records.db")
	_ = os.Setenv("REPOHEALTH_STORE_BACKEND", "sqlite")
	_ = os.Setenv("REPOHEALTH_STORE_DB_CONNECT", dbPath)
	defer func() { _ = os.Unsetenv("REPOHEALTH_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("REPOHEALTH_STORE_DB_CONNECT") }()

	require.NoError(t, runRepohealthCommand(t, "store", "migrate"))
	require.NoError(t, runRepohealthCommand(t, "store", "status"))
	require.NoError(t, runRepohealthCommand(t, "show"))
	require.NoError(t, runRepohealthCommand(t, "store", "clear"))
}

// TestManifestCommand runs a real sandboxed analysis for a minimal manifest.
// Requires npm on the PATH; skipped otherwise.
func TestManifestCommand(t *testing.T) {
	if _, err := exec.LookPath("npm"); err != nil {
		t.Skip("npm not available")
	}

	manifestPath := filepath.Join(t.TempDir(), "package.json")
	manifest := []byte(`{"dependencies": {"left-pad": "^1.3.0"}}`)
	require.NoError(t, os.WriteFile(manifestPath, manifest, 0o644))

	_ = os.Setenv("REPOHEALTH_SANDBOX", "direct")
	defer func() { _ = os.Unsetenv("REPOHEALTH_SANDBOX") }()

	require.NoError(t, runRepohealthCommand(t, "manifest", manifestPath))
}
