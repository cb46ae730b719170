package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
)

var updateCmd = &cobra.Command{
	Use:   "update [app-id]",
	Short: "Update an app, or everything with an update available",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			entry, err := d.entry(args[0])
			if err != nil {
				return err
			}
			return updateOne(d, entry)
		}

		// No argument: update every app with an update available.
		result, err := resolveAll(d, false)
		if err != nil {
			return err
		}

		updated := 0
		for _, entry := range d.catalog {
			rel, ok := result.Releases[entry.ID]
			if !ok {
				continue
			}
			if !d.orch.UpdateAvailableFor(entry.ID, &rel) {
				continue
			}
			fmt.Printf("Updating %s to v%s...\n", entry.Name, rel.Version)
			if err := d.orch.Update(context.Background(), entry.ID, rel, core.InstallOptions{}); err != nil {
				return fmt.Errorf("updating %s: %w", entry.Name, err)
			}
			fmt.Printf("✓ %s updated to v%s\n", entry.Name, rel.Version)
			updated++
		}
		if updated == 0 {
			fmt.Println("Everything is up to date")
		}

		if msg := result.FailureMessage(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	},
}

func updateOne(d *deps, entry core.AppCatalogEntry) error {
	rel, err := resolveOne(d, entry.ID, false)
	if err != nil {
		return err
	}
	if !d.orch.UpdateAvailableFor(entry.ID, &rel) {
		fmt.Printf("%s is up to date\n", entry.Name)
		return nil
	}

	fmt.Printf("Updating %s to v%s...\n", entry.Name, rel.Version)
	if err := d.orch.Update(context.Background(), entry.ID, rel, core.InstallOptions{}); err != nil {
		return err
	}
	fmt.Printf("✓ %s updated to v%s\n", entry.Name, rel.Version)
	return nil
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
