package core

import "fmt"

// InstalledVersion reads the persisted version record for an app. The record
// is absent until the first successful install.
func InstalledVersion(store Store, appID string) (string, bool, error) {
	var v string
	ok, err := store.Get(keyPrefixVersion+appID, &v)
	if err != nil {
		return "", false, fmt.Errorf("reading version record for %s: %w", appID, err)
	}
	return v, ok && v != "", nil
}

func setInstalledVersion(store Store, appID, version string) error {
	if err := store.Set(keyPrefixVersion+appID, version); err != nil {
		return fmt.Errorf("writing version record for %s: %w", appID, err)
	}
	return nil
}

func clearInstalledVersion(store Store, appID string) error {
	if err := store.Delete(keyPrefixVersion + appID); err != nil {
		return fmt.Errorf("clearing version record for %s: %w", appID, err)
	}
	return nil
}

// PrereleaseEnabled reads the per-app channel preference; the default
// channel is stable.
func PrereleaseEnabled(store Store, appID string) (bool, error) {
	var pre bool
	if _, err := store.Get(keyPrefixChannel+appID, &pre); err != nil {
		return false, fmt.Errorf("reading channel preference for %s: %w", appID, err)
	}
	return pre, nil
}

// SetPrereleaseEnabled persists the per-app channel preference.
func SetPrereleaseEnabled(store Store, appID string, enabled bool) error {
	if err := store.Set(keyPrefixChannel+appID, enabled); err != nil {
		return fmt.Errorf("writing channel preference for %s: %w", appID, err)
	}
	return nil
}

// ChannelPrefs loads the pre-release preference for every catalog entry.
func ChannelPrefs(store Store, catalog []AppCatalogEntry) (map[string]bool, error) {
	prefs := make(map[string]bool, len(catalog))
	for _, entry := range catalog {
		pre, err := PrereleaseEnabled(store, entry.ID)
		if err != nil {
			return nil, err
		}
		if pre {
			prefs[entry.ID] = true
		}
	}
	return prefs, nil
}

// UpdateAvailable derives whether an update exists. The decision is never
// stored: it needs an installed record, a resolved version, an installer
// URL, and a strictly newer resolved version. Absence of any operand means
// "no update", never an error.
func UpdateAvailable(installedVersion string, resolved *ReleaseInfo) bool {
	if installedVersion == "" || resolved == nil {
		return false
	}
	if resolved.Version == "" || !resolved.Installable() {
		return false
	}
	return CompareVersions(resolved.Version, installedVersion) > 0
}
