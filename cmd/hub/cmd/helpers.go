package cmd

import (
	"context"
	"fmt"

	"github.com/enderfall/hub/internal/core"
)

// resolveAll runs one release resolution over the whole catalog using the
// stored channel preferences.
func resolveAll(d *deps, forceRefresh bool) (core.ResolveResult, error) {
	prefs, err := core.ChannelPrefs(d.store, d.catalog)
	if err != nil {
		return core.ResolveResult{}, err
	}
	return d.resolver.ResolveReleases(context.Background(), d.catalog, prefs, forceRefresh), nil
}

// resolveOne resolves releases and returns the one for appID, or an error
// naming the failure when nothing resolved.
func resolveOne(d *deps, appID string, forceRefresh bool) (core.ReleaseInfo, error) {
	result, err := resolveAll(d, forceRefresh)
	if err != nil {
		return core.ReleaseInfo{}, err
	}
	rel, ok := result.Releases[appID]
	if !ok {
		if msg := result.FailureMessage(); msg != "" {
			return core.ReleaseInfo{}, fmt.Errorf("no release resolved for %s: %s", appID, msg)
		}
		return core.ReleaseInfo{}, fmt.Errorf("no installable release found for %s", appID)
	}
	return rel, nil
}

// channelName renders a channel preference for display.
func channelName(prerelease bool) string {
	if prerelease {
		return "pre-release"
	}
	return "stable"
}

// yesNo renders a boolean for display.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
