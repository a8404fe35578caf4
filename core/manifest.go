package core

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/seunfola/repohealth/schema"
)

// ExtractDependencies parses raw manifest JSON into a flat name to version
// range map. Both package.json and package-lock.json shapes are accepted.
// The top-level value must be a JSON object.
func ExtractDependencies(raw []byte) (map[string]string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", schema.ErrInvalidManifest)
	}

	deps := make(map[string]string)
	collectDependencies(doc["dependencies"], deps)
	collectDependencies(doc["devDependencies"], deps)
	return deps, nil
}

// collectDependencies merges one dependencies section into out. String values
// are package.json version ranges. Object values are lockfile entries whose
// version field is taken and whose nested dependencies are walked recursively.
func collectDependencies(section json.RawMessage, out map[string]string) {
	if len(section) == 0 {
		return
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(section, &entries); err != nil {
		return
	}
	for name, entry := range entries {
		var rangeStr string
		if err := json.Unmarshal(entry, &rangeStr); err == nil {
			out[name] = rangeStr
			continue
		}
		var locked struct {
			Version      string          `json:"version"`
			Dependencies json.RawMessage `json:"dependencies"`
		}
		if err := json.Unmarshal(entry, &locked); err != nil {
			continue
		}
		if locked.Version != "" {
			out[name] = locked.Version
		}
		collectDependencies(locked.Dependencies, out)
	}
}

// ExtractDependenciesFromFile dispatches on the uploaded file's name. Zip
// archives are scanned for manifests; anything that is not a zip, package.json
// or package-lock.json is rejected.
func ExtractDependenciesFromFile(name string, data []byte) (map[string]string, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractFromZip(data)
	case strings.HasSuffix(lower, "package.json"), strings.HasSuffix(lower, "package-lock.json"):
		return ExtractDependencies(data)
	default:
		return nil, fmt.Errorf("%w: %s", schema.ErrUnsupportedFile, name)
	}
}

// extractFromZip merges dependencies from every manifest entry in the archive.
func extractFromZip(data []byte) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable zip archive", schema.ErrInvalidManifest)
	}

	merged := make(map[string]string)
	found := false
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || !isManifestName(entry.Name) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", schema.ErrInvalidManifest, entry.Name)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", schema.ErrInvalidManifest, entry.Name)
		}
		deps, err := ExtractDependencies(content)
		if err != nil {
			return nil, err
		}
		found = true
		for name, rangeStr := range deps {
			merged[name] = rangeStr
		}
	}
	if !found {
		return nil, schema.ErrNoManifest
	}
	return merged, nil
}

func isManifestName(entryName string) bool {
	base := strings.ToLower(path.Base(entryName))
	return base == "package.json" || base == "package-lock.json"
}
