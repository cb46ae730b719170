package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

// blockingFeed parks FetchReleases until released, to hold a refresh cycle
// open.
type blockingFeed struct {
	fakeFeed
	started chan struct{}
	release chan struct{}
}

func (f *blockingFeed) FetchReleases(ctx context.Context, owner, repo string) ([]ReleaseFeedEntry, error) {
	f.started <- struct{}{}
	<-f.release
	return f.fakeFeed.FetchReleases(ctx, owner, repo)
}

func refreshFixtureOrchestrator(store *MemStore, catalog []AppCatalogEntry) *Orchestrator {
	locations := NewLocationRegistry(store)
	fs := &fakeFS{existing: map[string]bool{}}
	return NewOrchestrator(OrchestratorOptions{
		Store:      store,
		Locations:  locations,
		Tracker:    NewStateTracker(fs, probeCaps, locations),
		Downloader: &fakeDownloader{},
		Installer:  &fakeInstaller{},
		Launcher:   &fakeLauncher{},
		Caps:       probeCaps,
		Catalog:    catalog,
	})
}

func TestRefresher_DeliversResults(t *testing.T) {
	catalog := []AppCatalogEntry{{
		ID: "app-a", Name: "App A", ExeName: "appa.exe",
		RepoOwner: "owner", RepoName: "appa",
	}}
	feed := &fakeFeed{entries: map[string][]ReleaseFeedEntry{
		"owner/appa": {{
			TagName: "v1.5.0",
			Assets:  []ReleaseFeedAsset{{Name: "appa-setup.exe", DownloadURL: "https://example.com/a.exe"}},
		}},
	}}
	store := NewMemStore()

	var (
		mu      sync.Mutex
		results []ResolveResult
	)
	r := NewRefresher(NewResolver(feed, store), refreshFixtureOrchestrator(store, catalog), time.Minute,
		func(res ResolveResult) {
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		})

	r.RefreshNow(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	rel, ok := results[0].Releases["app-a"]
	if !ok || rel.Version != "1.5.0" {
		t.Errorf("release = %+v, ok=%v", rel, ok)
	}
}

func TestRefresher_OverlappingCyclesAreSkipped(t *testing.T) {
	catalog := []AppCatalogEntry{{
		ID: "app-a", Name: "App A", ExeName: "appa.exe",
		RepoOwner: "owner", RepoName: "appa",
	}}
	feed := &blockingFeed{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	store := NewMemStore()

	var (
		mu    sync.Mutex
		calls int
	)
	r := NewRefresher(NewResolver(feed, store), refreshFixtureOrchestrator(store, catalog), time.Minute,
		func(ResolveResult) {
			mu.Lock()
			calls++
			mu.Unlock()
		})

	done := make(chan struct{})
	go func() {
		r.RefreshNow(context.Background())
		close(done)
	}()
	<-feed.started

	// A second cycle while the first is mid-fetch is a no-op.
	r.RefreshNow(context.Background())
	mu.Lock()
	if calls != 0 {
		t.Errorf("overlapping cycle ran, calls = %d", calls)
	}
	mu.Unlock()

	close(feed.release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want exactly the first cycle", calls)
	}
}
