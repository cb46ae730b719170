package core

import (
	"fmt"
	"strings"
)

// LocationRegistry maps app id to the chosen install base directory,
// persisted through the injected store.
type LocationRegistry struct {
	store Store
}

// NewLocationRegistry creates a LocationRegistry on the given store.
func NewLocationRegistry(store Store) *LocationRegistry {
	return &LocationRegistry{store: store}
}

// ResolveBaseDir returns the install base directory for an app: the stored
// override if present, otherwise the supplied fallback default, otherwise ""
// — which downstream treats as "cannot install or launch".
func (lr *LocationRegistry) ResolveBaseDir(appID, fallbackDefault string) (string, error) {
	var stored string
	ok, err := lr.store.Get(keyPrefixLocation+appID, &stored)
	if err != nil {
		return "", fmt.Errorf("resolving install location for %s: %w", appID, err)
	}
	if ok && stored != "" {
		return stored, nil
	}
	return fallbackDefault, nil
}

// SetBaseDir persists the install base directory for an app.
func (lr *LocationRegistry) SetBaseDir(appID, path string) error {
	if err := lr.store.Set(keyPrefixLocation+appID, path); err != nil {
		return fmt.Errorf("storing install location for %s: %w", appID, err)
	}
	return nil
}

// ClearBaseDir removes the stored location so a later install starts from
// the computed default instead of a stale custom path.
func (lr *LocationRegistry) ClearBaseDir(appID string) error {
	if err := lr.store.Delete(keyPrefixLocation + appID); err != nil {
		return fmt.Errorf("clearing install location for %s: %w", appID, err)
	}
	return nil
}

// MigrateDefaults runs once the computed defaults become known (after the
// OS data directory is resolved). For every app that is NOT currently
// installed: a missing location gets the computed default stored, and a
// stored location matching the staleness heuristic is overwritten with the
// new default. Installed apps are never auto-migrated, so a real custom
// path is never silently lost.
func (lr *LocationRegistry) MigrateDefaults(defaults map[string]string, installed map[string]bool, dataRoot string) error {
	for appID, def := range defaults {
		if def == "" || installed[appID] {
			continue
		}

		var stored string
		ok, err := lr.store.Get(keyPrefixLocation+appID, &stored)
		if err != nil {
			return fmt.Errorf("migrating install location for %s: %w", appID, err)
		}

		if !ok || stored == "" || isStaleDefaultLocation(stored, dataRoot) {
			if stored == def {
				continue
			}
			if err := lr.SetBaseDir(appID, def); err != nil {
				return err
			}
		}
	}
	return nil
}

// isStaleDefaultLocation reports whether a stored path looks like a
// previous default rather than a deliberate user choice: it sits under the
// current default data root, or under a "Program Files" directory.
func isStaleDefaultLocation(stored, dataRoot string) bool {
	lower := strings.ToLower(stored)
	if dataRoot != "" && strings.HasPrefix(lower, strings.ToLower(dataRoot)) {
		return true
	}
	return strings.Contains(lower, "program files")
}
