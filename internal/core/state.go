package core

import (
	"path/filepath"

	"github.com/charmbracelet/log"
)

// StateTracker derives per-app installation status by probing the
// filesystem through the external capability. Probes fail closed: any
// error counts as "not installed" and is logged, never surfaced.
type StateTracker struct {
	fs        Filesystem
	caps      RuntimeCapabilities
	locations *LocationRegistry
}

// NewStateTracker creates a StateTracker. caps is explicit by design — the
// tracker never consults ambient runtime flags.
func NewStateTracker(fs Filesystem, caps RuntimeCapabilities, locations *LocationRegistry) *StateTracker {
	return &StateTracker{fs: fs, caps: caps, locations: locations}
}

// Refresh recomputes installed/dev-available status for the whole catalog.
// defaults supplies the fallback base directory per app id (may be nil).
func (st *StateTracker) Refresh(catalog []AppCatalogEntry, defaults map[string]string) map[string]InstallationStatus {
	statuses := make(map[string]InstallationStatus, len(catalog))
	for _, entry := range catalog {
		statuses[entry.ID] = st.refreshOne(entry, defaults[entry.ID])
	}
	return statuses
}

// ExePath computes the expected executable path for an entry, or "" when
// any segment is unresolved.
func (st *StateTracker) ExePath(entry AppCatalogEntry, fallbackDefault string) string {
	if entry.ExeName == "" {
		return ""
	}
	baseDir, err := st.locations.ResolveBaseDir(entry.ID, fallbackDefault)
	if err != nil {
		log.Debug("install location lookup failed", "app", entry.ID, "err", err)
		return ""
	}
	if baseDir == "" {
		return ""
	}
	return filepath.Join(baseDir, entry.InstallSubdir, entry.ExeName)
}

func (st *StateTracker) refreshOne(entry AppCatalogEntry, fallbackDefault string) InstallationStatus {
	var status InstallationStatus

	if exePath := st.ExePath(entry, fallbackDefault); exePath != "" {
		status.Installed = st.probe(entry.ID, exePath)
	}

	// Dev availability is independent of installed status, gated by the
	// development-build flag.
	if st.caps.IsDevelopmentBuild && entry.DevWorkspaceDir != "" {
		status.DevAvailable = st.probe(entry.ID, entry.DevWorkspaceDir)
	}

	return status
}

// probe checks path existence, failing closed on capability errors.
func (st *StateTracker) probe(appID, path string) bool {
	if !st.caps.CanProbeFilesystem {
		return false
	}
	exists, err := st.fs.PathExists(path)
	if err != nil {
		log.Debug("path probe failed", "app", appID, "path", path, "err", err)
		return false
	}
	return exists
}
