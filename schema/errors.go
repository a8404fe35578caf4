package schema

import "errors"

// Sentinel errors shared across the analysis pipeline. Callers wrap these with
// fmt.Errorf("...: %w", err) so errors.Is works at every layer.
var (
	// ErrInvalidManifest means the manifest text is not a JSON object.
	ErrInvalidManifest = errors.New("manifest is not a JSON object")

	// ErrNoManifest means an uploaded archive contained no recognizable manifest.
	ErrNoManifest = errors.New("no package manifest found in archive")

	// ErrUnsupportedFile means the uploaded file name is not a manifest or zip.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrInvalidDependencyName means a dependency key failed safety validation.
	// Raised before any sandbox process is spawned.
	ErrInvalidDependencyName = errors.New("invalid dependency name")

	// ErrInvalidRepoURL means a repository URL matched neither the HTTPS nor the SSH form.
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrNotFound means no stored analysis exists for the requested repository.
	ErrNotFound = errors.New("no stored analysis for repository")

	// ErrUpstream means the source-control API was unreachable after retries.
	ErrUpstream = errors.New("upstream service unavailable")

	// ErrSandbox means the sandboxed install step failed. Audit and outdated
	// failures degrade to empty results instead of raising this.
	ErrSandbox = errors.New("sandbox execution failed")
)
