package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
	"github.com/enderfall/hub/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		// Background refresh keeps resolved releases and install state fresh
		// while the dashboard is open. The TUI pulls its own snapshots, so
		// the refresher only needs to keep the caches warm.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		interval := time.Duration(d.cfg.RefreshIntervalMinutes) * time.Minute
		refresher := core.NewRefresher(d.resolver, d.orch, interval, nil)
		go refresher.Run(ctx)

		return tui.Run(tui.Deps{
			Store:        d.store,
			Orchestrator: d.orch,
			Resolver:     d.resolver,
			Catalog:      d.catalog,
			Status:       d.status,
		})
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
