package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFeedClient_FetchReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/enderfall/enderfall/releases" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"tag_name":"v1.2.0","prerelease":false,"assets":[
				{"name":"setup.exe","browser_download_url":"https://example.com/setup.exe"}]},
			{"tag_name":"v1.1.0","draft":true}
		]`))
	}))
	defer srv.Close()
	t.Setenv("HUB_API_BASE", srv.URL)

	c := NewFeedClient("tok-123")
	if !c.HasToken() {
		t.Error("HasToken() = false with explicit token")
	}

	entries, err := c.FetchReleases(context.Background(), "enderfall", "enderfall")
	if err != nil {
		t.Fatalf("FetchReleases() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].TagName != "v1.2.0" || entries[0].Assets[0].DownloadURL != "https://example.com/setup.exe" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if !entries[1].Draft {
		t.Error("draft flag not decoded")
	}
}

func TestFeedClient_TokenFromEnv(t *testing.T) {
	t.Setenv("HUB_GITHUB_TOKEN", "env-token")
	c := NewFeedClient("")
	if !c.HasToken() {
		t.Error("HasToken() = false with HUB_GITHUB_TOKEN set")
	}
}

func TestFeedClient_RateLimitErrorIsNotRetried(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	t.Setenv("HUB_API_BASE", srv.URL)

	c := NewFeedClient("")
	_, err := c.FetchReleases(context.Background(), "enderfall", "enderfall")

	var fe *FeedError
	if !errors.As(err, &fe) || !fe.RateLimited() {
		t.Fatalf("err = %v, want rate-limited FeedError", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, rate-limit responses must not be retried", requests)
	}
}

func TestFeedClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	t.Setenv("HUB_API_BASE", srv.URL)

	c := NewFeedClient("")
	_, err := c.FetchReleases(context.Background(), "enderfall", "gone")
	var fe *FeedError
	if !errors.As(err, &fe) || fe.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want FeedError 404", err)
	}
	if fe.RateLimited() {
		t.Error("404 classified as rate limited")
	}
}
