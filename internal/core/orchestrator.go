package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// defaultInstallerArgs is the silent-install argument pair used when a
// catalog entry configures none. NSIS-style: /S for silent, /D= for the
// target directory.
var defaultInstallerArgs = []string{"/S", "/D={installDir}"}

// selfUpdateVersionsDir is the subdirectory self-updates install into,
// qualified by version so the running binary is never overwritten.
const selfUpdateVersionsDir = "versions"

// Orchestrator drives the download, install, verify, record state machine
// per app, and the symmetric update and uninstall flows. All mutable state
// (statuses, in-flight guards) is mutated only under the internal lock.
type Orchestrator struct {
	store      Store
	locations  *LocationRegistry
	tracker    *StateTracker
	downloader Downloader
	installer  Installer
	launcher   Launcher
	caps       RuntimeCapabilities

	catalog  []AppCatalogEntry
	byID     map[string]AppCatalogEntry
	defaults map[string]string

	// onStatus, when set, is invoked after every published status change.
	// Called without the lock held.
	onStatus func(appID string, status AppStatus)

	mu       sync.Mutex
	inFlight map[string]bool
	statuses map[string]AppStatus
	states   map[string]InstallationStatus
}

// OrchestratorOptions configures construction.
type OrchestratorOptions struct {
	Store      Store
	Locations  *LocationRegistry
	Tracker    *StateTracker
	Downloader Downloader
	Installer  Installer
	Launcher   Launcher
	Caps       RuntimeCapabilities
	Catalog    []AppCatalogEntry
	// OnStatus is an optional listener for published status changes.
	OnStatus func(appID string, status AppStatus)
}

// NewOrchestrator wires the engine together.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	byID := make(map[string]AppCatalogEntry, len(opts.Catalog))
	for _, e := range opts.Catalog {
		byID[e.ID] = e
	}
	return &Orchestrator{
		store:      opts.Store,
		locations:  opts.Locations,
		tracker:    opts.Tracker,
		downloader: opts.Downloader,
		installer:  opts.Installer,
		launcher:   opts.Launcher,
		caps:       opts.Caps,
		catalog:    opts.Catalog,
		byID:       byID,
		defaults:   make(map[string]string),
		onStatus:   opts.OnStatus,
		inFlight:   make(map[string]bool),
		statuses:   make(map[string]AppStatus),
		states:     make(map[string]InstallationStatus),
	}
}

// SetDefaultLocations records the computed default base directory per app
// (known once the OS data directory resolves) and runs location migration.
// dataRoot is the default data root used by the staleness heuristic.
func (o *Orchestrator) SetDefaultLocations(defaults map[string]string, dataRoot string) error {
	o.mu.Lock()
	o.defaults = defaults
	o.mu.Unlock()

	installed := make(map[string]bool)
	for id, st := range o.RefreshState() {
		installed[id] = st.Installed
	}
	return o.locations.MigrateDefaults(defaults, installed, dataRoot)
}

// RefreshState re-probes installation status for the whole catalog and
// returns the fresh snapshot.
func (o *Orchestrator) RefreshState() map[string]InstallationStatus {
	o.mu.Lock()
	defaults := o.defaults
	o.mu.Unlock()

	states := o.tracker.Refresh(o.catalog, defaults)

	o.mu.Lock()
	o.states = states
	o.mu.Unlock()
	return states
}

// State returns the last probed installation status for an app.
func (o *Orchestrator) State(appID string) InstallationStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.states[appID]
}

// Status returns the current operation status for an app.
func (o *Orchestrator) Status(appID string) AppStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statuses[appID]
}

// Entry looks up a catalog entry by app id.
func (o *Orchestrator) Entry(appID string) (AppCatalogEntry, bool) {
	e, ok := o.byID[appID]
	return e, ok
}

// Catalog returns the catalog in declaration order.
func (o *Orchestrator) Catalog() []AppCatalogEntry {
	return o.catalog
}

// ResolveBaseDir resolves the effective install base directory for an app,
// applying the computed default as fallback.
func (o *Orchestrator) ResolveBaseDir(appID string) (string, error) {
	o.mu.Lock()
	def := o.defaults[appID]
	o.mu.Unlock()
	return o.locations.ResolveBaseDir(appID, def)
}

// UpdateAvailableFor derives the update decision for one app against a
// resolved release.
func (o *Orchestrator) UpdateAvailableFor(appID string, resolved *ReleaseInfo) bool {
	installed, ok, err := InstalledVersion(o.store, appID)
	if err != nil || !ok {
		return false
	}
	return UpdateAvailable(installed, resolved)
}

// HandleProgress consumes one inbound progress event, clamping the fraction
// to [0,1]. Events are last-write-wins; events for apps with no running
// operation are dropped.
func (o *Orchestrator) HandleProgress(ev ProgressEvent) {
	fraction := ev.Fraction
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	o.mu.Lock()
	status, ok := o.statuses[ev.AppID]
	if !ok || (status.Phase != PhaseDownloading && status.Phase != PhaseInstalling) {
		o.mu.Unlock()
		return
	}
	status.Progress = fraction
	o.statuses[ev.AppID] = status
	o.mu.Unlock()

	o.notify(ev.AppID, status)
}

// ConsumeProgress drains a progress event stream until it closes or ctx is
// done. Run it in its own goroutine.
func (o *Orchestrator) ConsumeProgress(ctx context.Context, events <-chan ProgressEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			o.HandleProgress(ev)
		}
	}
}

// InstallOptions configures an install or update operation.
type InstallOptions struct {
	// BaseDir overrides the resolved install base directory.
	BaseDir string
	// LocalInstallerPath installs from a local installer file instead of
	// downloading the release asset. Used by the dev workflow.
	LocalInstallerPath string
	// Shortcut flags apply to fresh installs only; updates never create
	// shortcuts.
	CreateDesktopShortcut   bool
	CreateStartMenuShortcut bool
}

// Install runs the full install pipeline for an app against a resolved
// release. A second call for the same app while one is in flight is
// rejected, not queued.
func (o *Orchestrator) Install(ctx context.Context, appID string, rel ReleaseInfo, opts InstallOptions) error {
	return o.runInstall(ctx, appID, rel, opts, false)
}

// Update runs the install pipeline for a strictly newer release, with
// shortcut creation suppressed. Self-updating entries install into a
// version-qualified subdirectory and launch the new binary afterwards.
func (o *Orchestrator) Update(ctx context.Context, appID string, rel ReleaseInfo, opts InstallOptions) error {
	installed, ok, err := InstalledVersion(o.store, appID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not installed; use install instead", appID)
	}
	if CompareVersions(rel.Version, installed) <= 0 {
		return fmt.Errorf("%s %s is already up to date", appID, installed)
	}
	opts.CreateDesktopShortcut = false
	opts.CreateStartMenuShortcut = false
	return o.runInstall(ctx, appID, rel, opts, true)
}

func (o *Orchestrator) runInstall(ctx context.Context, appID string, rel ReleaseInfo, opts InstallOptions, isUpdate bool) error {
	entry, ok := o.byID[appID]
	if !ok {
		return fmt.Errorf("unknown app %q", appID)
	}
	if !o.caps.CanInvokeNativeInstall {
		return &CapabilityError{Kind: CapErrUnavailable, Op: "install",
			Err: fmt.Errorf("this runtime cannot invoke native installs")}
	}

	// A release without an installer URL means "nothing to install yet":
	// a plain error to the caller, never a failed phase on the app card.
	// Local installs carry their own payload and skip that check.
	if opts.LocalInstallerPath == "" && !rel.Installable() {
		return fmt.Errorf("no installer available for %s", entry.Name)
	}
	if entry.ExeName == "" {
		return fmt.Errorf("catalog entry %s has no executable configured", appID)
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		var err error
		baseDir, err = o.ResolveBaseDir(appID)
		if err != nil {
			return err
		}
	}
	if baseDir == "" {
		return fmt.Errorf("no install location selected for %s", entry.Name)
	}

	if !o.begin(appID, PhaseDownloading) {
		return fmt.Errorf("an operation is already running for %s", entry.Name)
	}
	defer o.end(appID)

	// Persist the chosen location before any long-running step so a crash
	// mid-install still remembers the user's intent.
	if err := o.locations.SetBaseDir(appID, baseDir); err != nil {
		return o.fail(appID, err)
	}

	installDir := filepath.Join(baseDir, entry.InstallSubdir)
	if isUpdate && entry.SelfUpdate {
		installDir = filepath.Join(installDir, selfUpdateVersionsDir, rel.Version)
	}

	var installerPath string
	var err error
	if opts.LocalInstallerPath != "" {
		installerPath, err = o.downloader.CopyInstaller(ctx, appID, opts.LocalInstallerPath, installDir)
	} else {
		installerPath, err = o.downloader.DownloadInstaller(ctx, appID, rel.InstallerURL, installDir)
	}
	if err != nil {
		return o.fail(appID, err)
	}

	o.setPhase(appID, PhaseInstalling)

	exePath := filepath.Join(installDir, entry.ExeName)
	switch rel.InstallerType {
	case InstallerTypeEXE:
		args := expandInstallerArgs(entry.InstallerArgs, installDir)
		if err := o.installer.RunInstaller(ctx, installerPath, args); err != nil {
			return o.fail(appID, err)
		}
		if opts.CreateDesktopShortcut || opts.CreateStartMenuShortcut {
			// Best-effort: a shortcut failure never rolls back the install.
			if err := o.installer.CreateShortcuts(exePath, entry.Name,
				opts.CreateDesktopShortcut, opts.CreateStartMenuShortcut); err != nil {
				log.Debug("shortcut creation failed", "app", appID, "err", err)
			}
		}
	case InstallerTypeMSI:
		err := o.installer.InstallPayload(ctx, appID, installerPath, MSIPayloadOptions{
			InstallDir:              installDir,
			ExeName:                 entry.ExeName,
			AppName:                 entry.Name,
			CreateDesktopShortcut:   opts.CreateDesktopShortcut,
			CreateStartMenuShortcut: opts.CreateStartMenuShortcut,
		})
		if err != nil {
			return o.fail(appID, err)
		}
	default:
		return o.fail(appID, fmt.Errorf("unsupported installer type %q", rel.InstallerType))
	}

	// The version record is written only after the install succeeded; any
	// failure above leaves a previous record untouched.
	if err := setInstalledVersion(o.store, appID, rel.Version); err != nil {
		return o.fail(appID, err)
	}

	o.setPhase(appID, PhaseComplete)
	o.RefreshState()

	if isUpdate && entry.SelfUpdate {
		// Hand over to the freshly installed binary; the running one stays
		// on disk until the next cleanup.
		if err := o.launcher.Launch(exePath); err != nil {
			log.Debug("self-update relaunch failed", "app", appID, "err", err)
		}
	}
	return nil
}

// Uninstall removes an installed app and clears its persisted records so a
// later install starts clean. Failure leaves all persisted state untouched.
func (o *Orchestrator) Uninstall(ctx context.Context, appID string) error {
	entry, ok := o.byID[appID]
	if !ok {
		return fmt.Errorf("unknown app %q", appID)
	}
	if !o.caps.CanInvokeNativeInstall {
		return &CapabilityError{Kind: CapErrUnavailable, Op: "uninstall",
			Err: fmt.Errorf("this runtime cannot invoke native installs")}
	}

	baseDir, err := o.ResolveBaseDir(appID)
	if err != nil {
		return err
	}
	if baseDir == "" {
		return fmt.Errorf("no install location known for %s", entry.Name)
	}

	if !o.begin(appID, PhaseUninstalling) {
		return fmt.Errorf("an operation is already running for %s", entry.Name)
	}
	defer o.end(appID)

	installDir := filepath.Join(baseDir, entry.InstallSubdir)
	if err := o.installer.Uninstall(ctx, installDir, entry.Name); err != nil {
		return o.fail(appID, err)
	}

	if err := clearInstalledVersion(o.store, appID); err != nil {
		return o.fail(appID, err)
	}
	if err := o.locations.ClearBaseDir(appID); err != nil {
		return o.fail(appID, err)
	}

	o.setPhase(appID, PhaseIdle)
	o.RefreshState()
	return nil
}

// Launch starts an installed app, or its dev workspace when dev is set.
func (o *Orchestrator) Launch(appID string, dev bool) error {
	entry, ok := o.byID[appID]
	if !ok {
		return fmt.Errorf("unknown app %q", appID)
	}

	if dev {
		if !o.State(appID).DevAvailable {
			return fmt.Errorf("dev workspace for %s is not available", entry.Name)
		}
		return o.launcher.RunDev(entry.DevWorkspaceDir, entry.DevCommand)
	}

	o.mu.Lock()
	def := o.defaults[appID]
	o.mu.Unlock()
	exePath := o.tracker.ExePath(entry, def)
	if exePath == "" {
		return fmt.Errorf("no install location known for %s", entry.Name)
	}
	return o.launcher.Launch(exePath)
}

// begin claims the per-app in-flight guard and publishes the initial phase.
// Returns false when an operation is already running for the app.
func (o *Orchestrator) begin(appID string, phase OperationPhase) bool {
	o.mu.Lock()
	if o.inFlight[appID] {
		o.mu.Unlock()
		return false
	}
	o.inFlight[appID] = true
	status := AppStatus{Phase: phase}
	o.statuses[appID] = status
	o.mu.Unlock()

	o.notify(appID, status)
	return true
}

func (o *Orchestrator) end(appID string) {
	o.mu.Lock()
	delete(o.inFlight, appID)
	o.mu.Unlock()
}

func (o *Orchestrator) setPhase(appID string, phase OperationPhase) {
	o.mu.Lock()
	status := o.statuses[appID]
	status.Phase = phase
	if phase == PhaseComplete || phase == PhaseIdle {
		status.Progress = 0
		status.Message = ""
	}
	o.statuses[appID] = status
	o.mu.Unlock()

	o.notify(appID, status)
}

// fail marks the app's operation failed with a human-readable message and
// returns the original error for the caller.
func (o *Orchestrator) fail(appID string, err error) error {
	o.mu.Lock()
	status := o.statuses[appID]
	status.Phase = PhaseFailed
	status.Message = err.Error()
	o.statuses[appID] = status
	o.mu.Unlock()

	o.notify(appID, status)
	return err
}

func (o *Orchestrator) notify(appID string, status AppStatus) {
	if o.onStatus != nil {
		o.onStatus(appID, status)
	}
}

// expandInstallerArgs substitutes {installDir} in the configured silent
// install argument template, falling back to the default pair.
func expandInstallerArgs(template []string, installDir string) []string {
	if len(template) == 0 {
		template = defaultInstallerArgs
	}
	args := make([]string, len(template))
	for i, a := range template {
		args[i] = strings.ReplaceAll(a, "{installDir}", installDir)
	}
	return args
}
