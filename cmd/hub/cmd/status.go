package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show install state and available updates for every app",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		offline, _ := cmd.Flags().GetBool("offline")
		var result core.ResolveResult
		if !offline {
			result, err = resolveAll(d, false)
			if err != nil {
				return err
			}
		}

		states := d.orch.RefreshState()
		prefs, err := core.ChannelPrefs(d.store, d.catalog)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APP\tINSTALLED\tAVAILABLE\tCHANNEL\tSTATE")
		for _, entry := range d.catalog {
			installed, ok, err := core.InstalledVersion(d.store, entry.ID)
			if err != nil {
				return err
			}
			installedCol := "-"
			if ok {
				installedCol = "v" + installed
			}

			availableCol := "-"
			var resolved *core.ReleaseInfo
			if rel, found := result.Releases[entry.ID]; found {
				rel := rel
				resolved = &rel
				availableCol = "v" + rel.Version
				if rel.Prerelease {
					availableCol += " (pre)"
				}
			}

			state := "not installed"
			if states[entry.ID].Installed {
				state = "installed"
				if core.UpdateAvailable(installed, resolved) {
					state = "update available"
				}
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				entry.ID, installedCol, availableCol, channelName(prefs[entry.ID]), state)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if msg := result.FailureMessage(); msg != "" {
			fmt.Fprintf(os.Stderr, "\nwarning: %s\n", msg)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("offline", false, "skip release resolution, show local state only")
	rootCmd.AddCommand(statusCmd)
}
