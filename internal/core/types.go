// Package core provides the release-resolution and install lifecycle engine
// for the Enderfall hub. It has zero UI dependencies and is independently
// testable: all persistence goes through the Store interface and all native
// operations go through the capability interfaces in capability.go.
package core

import "time"

// InstallerType identifies how a downloaded installer asset is driven.
type InstallerType string

const (
	InstallerTypeMSI InstallerType = "msi"
	InstallerTypeEXE InstallerType = "exe"
)

// AssetPattern is one ordered matcher tried against release asset filenames.
type AssetPattern struct {
	Pattern string        `json:"pattern" yaml:"pattern"`
	Type    InstallerType `json:"type" yaml:"type"`
}

// AppCatalogEntry is the static descriptor of one installable companion app.
// The catalog is read-only at runtime; entries without repo coordinates never
// resolve installers.
type AppCatalogEntry struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	ExeName       string         `json:"exeName" yaml:"exeName"`
	InstallSubdir string         `json:"installSubdir" yaml:"installSubdir"`
	AssetPatterns []AssetPattern `json:"installerAssetPatterns,omitempty" yaml:"installerAssetPatterns,omitempty"`
	// InstallerArgs is the silent-install argument template for exe installers.
	// "{installDir}" is substituted with the resolved install directory.
	InstallerArgs []string `json:"installerArgs,omitempty" yaml:"installerArgs,omitempty"`
	// DefaultType is used when no pattern matches any asset.
	DefaultType InstallerType `json:"defaultInstallerType,omitempty" yaml:"defaultInstallerType,omitempty"`

	RepoOwner string `json:"repoOwner,omitempty" yaml:"repoOwner,omitempty"`
	RepoName  string `json:"repoName,omitempty" yaml:"repoName,omitempty"`

	// Developer-mode launch path; not implicated in the normal install flow.
	DevWorkspaceDir string   `json:"devWorkspaceDir,omitempty" yaml:"devWorkspaceDir,omitempty"`
	DevCommand      []string `json:"devCommand,omitempty" yaml:"devCommand,omitempty"`

	// Premium entries require an active entitlement before install/launch.
	Premium bool `json:"premium,omitempty" yaml:"premium,omitempty"`

	// SelfUpdate marks the hub's own catalog entry, which installs into a
	// version-qualified subdirectory instead of overwriting the running binary.
	SelfUpdate bool `json:"selfUpdate,omitempty" yaml:"selfUpdate,omitempty"`
}

// HasRepo reports whether the entry can resolve releases at all.
func (e AppCatalogEntry) HasRepo() bool {
	return e.RepoOwner != "" && e.RepoName != ""
}

// ReleaseInfo is the resolved installable release for one app. A ReleaseInfo
// with an empty InstallerURL means "a release exists but carries no valid
// installer asset" — consumers treat that as not-installable, not as an error.
type ReleaseInfo struct {
	Version       string        `json:"version"`
	InstallerURL  string        `json:"installerUrl,omitempty"`
	InstallerType InstallerType `json:"installerType"`
	Prerelease    bool          `json:"prerelease"`
	Notes         string        `json:"notes,omitempty"`
}

// Installable reports whether the release can actually be installed.
func (r ReleaseInfo) Installable() bool {
	return r.InstallerURL != ""
}

// ReleaseFeedAsset is a single downloadable file attached to a feed entry.
type ReleaseFeedAsset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// ReleaseFeedEntry is one release object from the remote feed, newest first.
type ReleaseFeedEntry struct {
	TagName     string             `json:"tag_name"`
	Draft       bool               `json:"draft"`
	Prerelease  bool               `json:"prerelease"`
	PublishedAt time.Time          `json:"published_at"`
	Body        string             `json:"body"`
	Assets      []ReleaseFeedAsset `json:"assets"`
}

// InstallationStatus is derived on demand and never persisted.
type InstallationStatus struct {
	Installed    bool
	DevAvailable bool
}

// Entitlement is an external grant record gating premium entries. Fetched,
// never mutated locally.
type Entitlement struct {
	AppID  string `json:"app_id"`
	Tier   string `json:"tier"`
	Active bool   `json:"active"`
}

// RuntimeCapabilities states what the hosting runtime can actually do.
// It is passed explicitly into the orchestrator and tracker at construction
// instead of being read from ambient global state.
type RuntimeCapabilities struct {
	CanInvokeNativeInstall bool
	CanProbeFilesystem     bool
	IsDevelopmentBuild     bool
}

// ProgressEvent is the inbound out-of-band progress notification emitted by
// the download/install capabilities, keyed by app id with a fractional value.
type ProgressEvent struct {
	AppID    string  `json:"appId"`
	Fraction float64 `json:"progress"`
}

// OperationPhase is the orchestrator's per-app state machine phase.
type OperationPhase int

const (
	PhaseIdle OperationPhase = iota
	PhaseDownloading
	PhaseInstalling
	PhaseUninstalling
	PhaseComplete
	PhaseFailed
)

// String returns a human-readable label for the phase.
func (p OperationPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDownloading:
		return "downloading"
	case PhaseInstalling:
		return "installing"
	case PhaseUninstalling:
		return "uninstalling"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AppStatus is the orchestrator's published view of one app.
type AppStatus struct {
	Phase    OperationPhase
	Progress float64 // [0,1], meaningful while Downloading/Installing
	Message  string  // human-readable failure text when Phase == PhaseFailed
}
