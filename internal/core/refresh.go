package core

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Refresher periodically re-resolves releases and re-probes installation
// state. Ticks are skipped while a previous refresh is still running, so
// overlapping ticks never stack.
type Refresher struct {
	resolver *Resolver
	orch     *Orchestrator
	interval time.Duration

	// onResult, when set, receives every refresh result.
	onResult func(ResolveResult)

	busy chan struct{}
}

// NewRefresher creates a Refresher with the given cadence. onResult may be
// nil.
func NewRefresher(resolver *Resolver, orch *Orchestrator, interval time.Duration, onResult func(ResolveResult)) *Refresher {
	return &Refresher{
		resolver: resolver,
		orch:     orch,
		interval: interval,
		onResult: onResult,
		busy:     make(chan struct{}, 1),
	}
}

// Run blocks until ctx is done, refreshing immediately and then on every
// interval tick.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// RefreshNow runs one refresh cycle, honoring the single-flight guard.
func (r *Refresher) RefreshNow(ctx context.Context) {
	r.refresh(ctx)
}

func (r *Refresher) refresh(ctx context.Context) {
	select {
	case r.busy <- struct{}{}:
	default:
		log.Debug("refresh tick skipped, previous cycle still running")
		return
	}
	defer func() { <-r.busy }()

	prefs, err := ChannelPrefs(r.orch.store, r.orch.Catalog())
	if err != nil {
		log.Debug("channel preference load failed", "err", err)
		prefs = nil
	}

	result := r.resolver.ResolveReleases(ctx, r.orch.Catalog(), prefs, false)
	r.orch.RefreshState()

	if r.onResult != nil {
		r.onResult(result)
	}
}
