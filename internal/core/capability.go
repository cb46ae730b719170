package core

import (
	"context"
	"fmt"
)

// CapabilityErrorKind classifies why a native capability call failed.
type CapabilityErrorKind int

const (
	// CapErrUnknown is an unclassified capability failure.
	CapErrUnknown CapabilityErrorKind = iota
	// CapErrDownload means the installer download failed (network or write).
	CapErrDownload
	// CapErrProcess means an installer or uninstaller process failed to
	// launch or exited non-zero.
	CapErrProcess
	// CapErrUnavailable means the runtime cannot invoke native installs at all.
	CapErrUnavailable
)

// String returns a human-readable label for the error kind.
func (k CapabilityErrorKind) String() string {
	switch k {
	case CapErrDownload:
		return "Download Failed"
	case CapErrProcess:
		return "Installer Failed"
	case CapErrUnavailable:
		return "Not Available"
	default:
		return "Unknown Error"
	}
}

// CapabilityError is a structured error returned by native capability
// implementations. It wraps the underlying cause with a classification the
// orchestrator turns into per-app status text.
type CapabilityError struct {
	Kind CapabilityErrorKind
	Op   string // capability name, e.g. "downloadInstaller"
	Err  error
}

func (e *CapabilityError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// NewDownloadError wraps err as a download failure.
func NewDownloadError(op string, err error) *CapabilityError {
	return &CapabilityError{Kind: CapErrDownload, Op: op, Err: err}
}

// NewProcessError wraps err as an installer/uninstaller process failure.
func NewProcessError(op string, err error) *CapabilityError {
	return &CapabilityError{Kind: CapErrProcess, Op: op, Err: err}
}

// Downloader fetches an installer asset to a local directory, reporting
// fractional progress through the orchestrator's event stream.
type Downloader interface {
	// DownloadInstaller downloads url into destinationDir and returns the
	// local installer path. Fails with a CapabilityError of kind CapErrDownload.
	DownloadInstaller(ctx context.Context, appID, url, destinationDir string) (string, error)

	// CopyInstaller installs from a local installer file instead of a URL,
	// with the same progress reporting. Used by the dev workflow.
	CopyInstaller(ctx context.Context, appID, sourcePath, destinationDir string) (string, error)
}

// MSIPayloadOptions configures a single-call msi payload install.
type MSIPayloadOptions struct {
	InstallDir              string
	ExeName                 string
	AppName                 string
	CreateDesktopShortcut   bool
	CreateStartMenuShortcut bool
}

// Installer drives the OS-level install primitives.
type Installer interface {
	// RunInstaller invokes an exe-type installer silently with the given
	// arguments. Fails with a CapabilityError of kind CapErrProcess on
	// non-zero exit or launch failure.
	RunInstaller(ctx context.Context, path string, args []string) error

	// InstallPayload performs a single-call silent install for msi-type
	// installers, including inline shortcut creation.
	InstallPayload(ctx context.Context, appID, installerPath string, opts MSIPayloadOptions) error

	// CreateShortcuts is best-effort: a failure must not roll back an
	// otherwise-successful install.
	CreateShortcuts(exePath, appName string, desktop, startMenu bool) error

	// Uninstall removes the install directory and any shortcuts.
	Uninstall(ctx context.Context, installDir, appName string) error
}

// Filesystem is the existence-probe capability. Probes fail closed: any
// error is reported as "does not exist".
type Filesystem interface {
	PathExists(path string) (bool, error)
}

// Launcher starts installed binaries and dev workspaces, fire-and-forget.
type Launcher interface {
	Launch(path string) error
	RunDev(workspaceDir string, command []string) error
}
