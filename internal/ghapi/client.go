// Package ghapi is the GitHub metadata client with per-endpoint caching and retry.
package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seunfola/repohealth/internal/contract"
	"github.com/seunfola/repohealth/internal/memo"
	"github.com/seunfola/repohealth/schema"
)

// Client reads repository metadata from the GitHub REST API. All three
// operations are memoized with independent TTLs and keys per owner/repo pair.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	fallbackToken string
	cache         *memo.Cache

	repoTTL    time.Duration
	commitsTTL time.Duration
	alertsTTL  time.Duration
}

var _ contract.MetadataClient = &Client{} // Compile-time check

// NewClient creates a Client from the validated configuration. The cache and
// retry policy are owned by this instance, never package-level state.
func NewClient(cfg *contract.Config) *Client {
	return &Client{
		httpClient:    &http.Client{},
		baseURL:       cfg.APIBaseURL,
		fallbackToken: cfg.Token,
		cache:         memo.New(cfg.RetryAttempts, cfg.RetryBaseDelay),
		repoTTL:       cfg.RepoTTL,
		commitsTTL:    cfg.CommitsTTL,
		alertsTTL:     cfg.AlertsTTL,
	}
}

// repoPayload mirrors the fields of GET /repos/{owner}/{repo} that feed the
// health score. Missing or malformed fields default rather than fail.
type repoPayload struct {
	Name       string `json:"name"`
	Stars      int    `json:"stargazers_count"`
	Forks      int    `json:"forks_count"`
	OpenIssues int    `json:"open_issues_count"`
	PushedAt   string `json:"pushed_at"`
}

// weekPayload mirrors one entry of GET /repos/{owner}/{repo}/stats/commit_activity.
type weekPayload struct {
	Total int `json:"total"`
}

// RepoSummary fetches the repository summary. A failure after retries is
// surfaced as schema.ErrUpstream; the orchestrator treats it as fatal.
func (c *Client) RepoSummary(ctx context.Context, owner, repo, token string) (schema.RepoSummary, error) {
	key := fmt.Sprintf("repo:%s/%s", owner, repo)
	summary, err := memo.GetOrCompute(ctx, c.cache, key, c.repoTTL, func(ctx context.Context) (schema.RepoSummary, error) {
		var payload repoPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s", owner, repo), token, &payload); err != nil {
			return schema.RepoSummary{}, err
		}

		pushed, err := time.Parse(time.RFC3339, payload.PushedAt)
		if err != nil {
			pushed = time.Time{} // degrade to zero recency contribution
		}
		return schema.RepoSummary{
			Name:       payload.Name,
			Stars:      payload.Stars,
			Forks:      payload.Forks,
			OpenIssues: payload.OpenIssues,
			LastPushed: pushed,
		}, nil
	})
	if err != nil {
		return schema.RepoSummary{}, fmt.Errorf("%w: repository %s/%s: %v", schema.ErrUpstream, owner, repo, err)
	}
	return summary, nil
}

// CommitActivity fetches ordered weekly commit totals, most recent last.
// Callers degrade a failure to an empty slice; this method never hides it.
func (c *Client) CommitActivity(ctx context.Context, owner, repo, token string) ([]int, error) {
	key := fmt.Sprintf("commits:%s/%s", owner, repo)
	return memo.GetOrCompute(ctx, c.cache, key, c.commitsTTL, func(ctx context.Context) ([]int, error) {
		var weeks []weekPayload
		if err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/stats/commit_activity", owner, repo), token, &weeks); err != nil {
			return nil, err
		}

		totals := make([]int, 0, len(weeks))
		for _, w := range weeks {
			totals = append(totals, w.Total)
		}
		return totals, nil
	})
}

// HasSecurityAlerts probes the vulnerability-alerts endpoint. A 204 means
// alerts are present, a 404 means none; anything else is an error the caller
// degrades to false.
func (c *Client) HasSecurityAlerts(ctx context.Context, owner, repo, token string) (bool, error) {
	key := fmt.Sprintf("alerts:%s/%s", owner, repo)
	return memo.GetOrCompute(ctx, c.cache, key, c.alertsTTL, func(ctx context.Context) (bool, error) {
		req, err := c.newRequest(ctx, fmt.Sprintf("/repos/%s/%s/vulnerability-alerts", owner, repo), token)
		if err != nil {
			return false, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return false, err
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch resp.StatusCode {
		case http.StatusNoContent:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		default:
			return false, fmt.Errorf("unexpected status %d probing vulnerability alerts", resp.StatusCode)
		}
	})
}

// newRequest builds an authenticated GET request. A per-request token
// overrides the process-wide fallback; with neither, the request proceeds
// unauthenticated under the API's lower rate limit.
func (c *Client) newRequest(ctx context.Context, path, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	if token == "" {
		token = c.fallbackToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// getJSON issues a GET and decodes the 200 response body into out.
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := c.newRequest(ctx, path, token)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
