package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var locationCmd = &cobra.Command{
	Use:   "location <app-id> [path]",
	Short: "Show or set an app's install base directory",
	Long: `Show or set the base directory an app installs under.

Setting a location for an installed app does not move the existing
install; it takes effect on the next install.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		entry, err := d.entry(args[0])
		if err != nil {
			return err
		}

		if len(args) == 1 {
			baseDir, err := d.orch.ResolveBaseDir(entry.ID)
			if err != nil {
				return err
			}
			if baseDir == "" {
				fmt.Printf("%s: no install location\n", entry.ID)
				return nil
			}
			fmt.Printf("%s: %s\n", entry.ID, baseDir)
			return nil
		}

		path, err := filepath.Abs(args[1])
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		if err := d.locations.SetBaseDir(entry.ID, path); err != nil {
			return err
		}
		fmt.Printf("✓ %s will install under %s\n", entry.ID, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationCmd)
}
