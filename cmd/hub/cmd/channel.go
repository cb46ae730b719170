package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
)

var channelCmd = &cobra.Command{
	Use:   "channel <app-id> [stable|prerelease]",
	Short: "Show or set an app's release channel",
	Args:  cobra.RangeArgs(1, 2),
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
			pre, err := core.PrereleaseEnabled(d.store, entry.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", entry.ID, channelName(pre))
			return nil
		}

		var enable bool
		switch args[1] {
		case "stable":
			enable = false
		case "prerelease", "pre-release":
			enable = true
		default:
			return fmt.Errorf("unknown channel %q, want stable or prerelease", args[1])
		}

		if err := core.SetPrereleaseEnabled(d.store, entry.ID, enable); err != nil {
			return err
		}
		fmt.Printf("✓ %s channel set to %s\n", entry.ID, channelName(enable))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)
}
