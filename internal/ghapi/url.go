package ghapi

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seunfola/repohealth/schema"
)

// Accepted repository URL shapes. Both tolerate a trailing ".git" suffix and
// the HTTPS form additionally tolerates a trailing slash.
var (
	httpsRepoPattern = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshRepoPattern   = regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// ParseRepoURL resolves a repository URL into its owner and repo parts.
// Anything matching neither form fails with schema.ErrInvalidRepoURL.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(raw)

	for _, pattern := range []*regexp.Regexp{httpsRepoPattern, sshRepoPattern} {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			return m[1], m[2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", schema.ErrInvalidRepoURL, raw)
}
