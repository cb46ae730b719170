package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultFeedAPIBase = "https://api.github.com"
	feedPageSize       = 30
	feedRequestTimeout = 15 * time.Second
)

// FeedError is a non-2xx response from the release feed.
type FeedError struct {
	Owner      string
	Repo       string
	StatusCode int
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("release feed %s/%s: HTTP %d", e.Owner, e.Repo, e.StatusCode)
}

// RateLimited reports whether the failure was a rate-limit rejection.
func (e *FeedError) RateLimited() bool { return e.StatusCode == http.StatusForbidden }

// ReleaseFeed fetches release lists for a repository, newest first.
type ReleaseFeed interface {
	FetchReleases(ctx context.Context, owner, repo string) ([]ReleaseFeedEntry, error)
	// HasToken reports whether requests carry authentication, used to decide
	// whether a rate-limit failure warrants a token-configuration hint.
	HasToken() bool
}

// FeedClient consumes the GitHub releases API. The API base is overridable
// via HUB_API_BASE (test seam); the bearer token comes from the constructor
// or HUB_GITHUB_TOKEN.
type FeedClient struct {
	base   string
	token  string
	client *http.Client
}

// NewFeedClient creates a FeedClient. An empty token falls back to the
// HUB_GITHUB_TOKEN environment variable; unauthenticated requests work but
// are rate-limited aggressively by the feed host.
func NewFeedClient(token string) *FeedClient {
	if token == "" {
		token = os.Getenv("HUB_GITHUB_TOKEN")
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.HTTPClient.Timeout = feedRequestTimeout
	rc.Logger = nil
	// Rate-limit rejections must reach the resolver's stale-cache fallback
	// instead of burning retries against a closed window.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == http.StatusForbidden {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return &FeedClient{
		base:   feedAPIBase(),
		token:  token,
		client: rc.StandardClient(),
	}
}

func feedAPIBase() string {
	if base := strings.TrimSpace(os.Getenv("HUB_API_BASE")); base != "" {
		return strings.TrimRight(base, "/")
	}
	return defaultFeedAPIBase
}

// HasToken reports whether requests are authenticated.
func (c *FeedClient) HasToken() bool { return c.token != "" }

// FetchReleases fetches the newest releases for owner/repo, capped at one
// page. Non-2xx responses return a *FeedError carrying the status code.
func (c *FeedClient) FetchReleases(ctx context.Context, owner, repo string) ([]ReleaseFeedEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d", c.base, owner, repo, feedPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching releases for %s/%s: %w", owner, repo, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FeedError{Owner: owner, Repo: repo, StatusCode: resp.StatusCode}
	}

	var entries []ReleaseFeedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parsing release feed for %s/%s: %w", owner, repo, err)
	}
	return entries, nil
}
