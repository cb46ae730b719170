package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/enderfall/hub/internal/core"
	"github.com/enderfall/hub/internal/platform"
	"github.com/enderfall/hub/internal/tui"
)

// devBuild is flipped to "true" via ldflags for development builds, which
// unlock the dev workspace launch path.
var devBuild = "false"

// deps holds the wired engine shared by CLI commands. Built lazily by the
// commands that need it.
type deps struct {
	config    *core.ConfigManager
	cfg       *core.Config
	store     core.Store
	catalog   []core.AppCatalogEntry
	locations *core.LocationRegistry
	resolver  *core.Resolver
	orch      *core.Orchestrator

	// status feeds the TUI; buffered so engine callbacks never block.
	status chan tui.StatusUpdate
	// progress carries download/install progress into the orchestrator.
	progress chan core.ProgressEvent
}

// newDeps wires the whole engine: config, store, catalog, feed, resolver,
// native capabilities and orchestrator.
func newDeps() (*deps, error) {
	config, err := core.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cfg.Debug || os.Getenv("HUB_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	catalog, err := core.LoadCatalogWithOverlay(config.CatalogOverlayPath())
	if err != nil {
		return nil, err
	}

	store := core.NewFileStore(config.StoreDir())
	locations := core.NewLocationRegistry(store)
	caps := platform.Capabilities(devBuild == "true")
	tracker := core.NewStateTracker(platform.OSFilesystem{}, caps, locations)

	d := &deps{
		config:    config,
		cfg:       cfg,
		store:     store,
		catalog:   catalog,
		locations: locations,
		resolver:  core.NewResolver(core.NewFeedClient(cfg.FeedToken), store),
		status:    make(chan tui.StatusUpdate, 64),
		progress:  make(chan core.ProgressEvent, 64),
	}

	d.orch = core.NewOrchestrator(core.OrchestratorOptions{
		Store:      store,
		Locations:  locations,
		Tracker:    tracker,
		Downloader: platform.NewHTTPDownloader(d.progress),
		Installer:  platform.NewExecInstaller(d.progress),
		Launcher:   platform.OSLauncher{},
		Caps:       caps,
		Catalog:    catalog,
		OnStatus: func(appID string, status core.AppStatus) {
			select {
			case d.status <- tui.StatusUpdate{AppID: appID, Status: status}:
			default:
			}
		},
	})

	go d.orch.ConsumeProgress(context.Background(), d.progress)

	dataRoot := cfg.DataRoot
	if dataRoot == "" {
		dataRoot, err = platform.DefaultDataRoot()
		if err != nil {
			return nil, err
		}
	}
	defaults := platform.DefaultLocations(catalog, dataRoot)
	if err := d.orch.SetDefaultLocations(defaults, dataRoot); err != nil {
		return nil, err
	}

	return d, nil
}

// entry resolves an app id argument against the catalog.
func (d *deps) entry(appID string) (core.AppCatalogEntry, error) {
	entry, ok := d.orch.Entry(appID)
	if !ok {
		return core.AppCatalogEntry{}, fmt.Errorf("unknown app %q; see 'hub catalog'", appID)
	}
	return entry, nil
}
