package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// feedCacheTTL is the freshness window for cached release feeds.
const feedCacheTTL = 5 * time.Minute

// feedCacheEntry is the persisted feed snapshot for one owner/repo.
type feedCacheEntry struct {
	FetchedAt time.Time          `json:"fetchedAt"`
	Entries   []ReleaseFeedEntry `json:"entries"`
}

// ResolveResult is the outcome of a catalog-wide resolution cycle. Apps with
// no resolvable release simply have no entry in Releases. Failures holds one
// human-readable string per failed app.
type ResolveResult struct {
	Releases map[string]ReleaseInfo
	Failures []string

	// rateLimited is set when at least one failure was a rate-limit rejection.
	rateLimited bool
	hasToken    bool
}

// FailureMessage joins the per-app failures into a single user-visible
// summary, appending a token hint when rate limiting hit unauthenticated
// requests. Empty when everything resolved.
func (r ResolveResult) FailureMessage() string {
	if len(r.Failures) == 0 {
		return ""
	}
	msg := strings.Join(r.Failures, "; ")
	if r.rateLimited && !r.hasToken {
		msg += " (rate limited: configure a feed token to raise the limit)"
	}
	return msg
}

// Resolver turns the remote release feeds into per-app ReleaseInfo values,
// caching feeds per owner/repo with a 5-minute freshness window. Resolution
// is best-effort and per-app: one app's failure never blocks the others.
type Resolver struct {
	feed  ReleaseFeed
	store Store
	now   func() time.Time
}

// NewResolver creates a Resolver backed by the given feed and store.
func NewResolver(feed ReleaseFeed, store Store) *Resolver {
	return &Resolver{feed: feed, store: store, now: time.Now}
}

// ResolveReleases resolves every catalog entry concurrently and joins the
// results. prerelease maps app id to the pre-release channel preference;
// forceRefresh bypasses fresh cache entries (but not the stale-cache
// fallback on rate limiting).
func (r *Resolver) ResolveReleases(ctx context.Context, catalog []AppCatalogEntry, prerelease map[string]bool, forceRefresh bool) ResolveResult {
	result := ResolveResult{
		Releases: make(map[string]ReleaseInfo),
		hasToken: r.feed.HasToken(),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, entry := range catalog {
		if !entry.HasRepo() {
			continue
		}
		wg.Add(1)
		go func(entry AppCatalogEntry) {
			defer wg.Done()
			info, err := r.resolveApp(ctx, entry, prerelease[entry.ID], forceRefresh)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", entry.Name, err))
				var fe *FeedError
				if errors.As(err, &fe) && fe.RateLimited() {
					result.rateLimited = true
				}
				return
			}
			if info != nil {
				result.Releases[entry.ID] = *info
			}
		}(entry)
	}
	wg.Wait()

	return result
}

// resolveApp resolves a single catalog entry. A nil ReleaseInfo with nil
// error means no release was selectable ("no installer available").
func (r *Resolver) resolveApp(ctx context.Context, entry AppCatalogEntry, includePrerelease, forceRefresh bool) (*ReleaseInfo, error) {
	entries, err := r.fetchFeed(ctx, entry.RepoOwner, entry.RepoName, forceRefresh)
	if err != nil {
		return nil, err
	}

	// Partition by channel, dropping drafts. Feed order (newest first) is
	// preserved within each set.
	var primary, fallback []ReleaseFeedEntry
	for _, rel := range entries {
		if rel.Draft {
			continue
		}
		switch {
		case includePrerelease && rel.Prerelease:
			primary = append(primary, rel)
		case includePrerelease && !rel.Prerelease:
			fallback = append(fallback, rel)
		case !includePrerelease && !rel.Prerelease:
			primary = append(primary, rel)
		}
	}

	if info := selectFromSet(entry, primary); info != nil {
		return info, nil
	}
	return selectFromSet(entry, fallback), nil
}

// selectFromSet walks a candidate set in feed order and returns the first
// entry whose assets match the catalog's patterns.
func selectFromSet(entry AppCatalogEntry, candidates []ReleaseFeedEntry) *ReleaseInfo {
	for _, rel := range candidates {
		sel := SelectInstallerAsset(entry, rel)
		if sel.Asset == nil {
			continue
		}
		return &ReleaseInfo{
			Version:       NormalizeVersion(rel.TagName),
			InstallerURL:  sel.Asset.DownloadURL,
			InstallerType: sel.Type,
			Prerelease:    rel.Prerelease,
			Notes:         rel.Body,
		}
	}
	return nil
}

// fetchFeed returns the release feed for owner/repo, reusing the cache
// within its freshness window. Rate-limit failures fall back to any cached
// snapshot, however stale, rather than failing outright.
func (r *Resolver) fetchFeed(ctx context.Context, owner, repo string, forceRefresh bool) ([]ReleaseFeedEntry, error) {
	cacheKey := keyPrefixFeed + owner + "/" + repo

	var cached feedCacheEntry
	haveCache, err := r.store.Get(cacheKey, &cached)
	if err != nil {
		log.Debug("feed cache read failed", "repo", owner+"/"+repo, "err", err)
		haveCache = false
	}

	if haveCache && !forceRefresh && r.now().Sub(cached.FetchedAt) < feedCacheTTL {
		return cached.Entries, nil
	}

	entries, err := r.feed.FetchReleases(ctx, owner, repo)
	if err != nil {
		var fe *FeedError
		if errors.As(err, &fe) && fe.RateLimited() && haveCache {
			log.Debug("rate limited, serving stale feed cache", "repo", owner+"/"+repo)
			return cached.Entries, nil
		}
		return nil, err
	}

	if err := r.store.Set(cacheKey, feedCacheEntry{FetchedAt: r.now(), Entries: entries}); err != nil {
		// Cache write failure is not a resolution failure.
		log.Debug("feed cache write failed", "repo", owner+"/"+repo, "err", err)
	}
	return entries, nil
}
