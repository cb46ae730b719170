package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "Show the resolved release for every app",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("refresh")
		result, err := resolveAll(d, force)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "APP\tVERSION\tCHANNEL\tINSTALLER")
		for _, entry := range d.catalog {
			rel, ok := result.Releases[entry.ID]
			if !ok {
				continue
			}
			channel := "stable"
			if rel.Prerelease {
				channel = "pre-release"
			}
			fmt.Fprintf(w, "%s\tv%s\t%s\t%s\n", entry.ID, rel.Version, channel, rel.InstallerType)
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

var releaseNotesCmd = &cobra.Command{
	Use:   "notes <app-id>",
	Short: "Show release notes for an app's resolved release",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		entry, err := d.entry(args[0])
		if err != nil {
			return err
		}

		rel, err := resolveOne(d, entry.ID, false)
		if err != nil {
			return err
		}
		if rel.Notes == "" {
			fmt.Printf("%s v%s has no release notes\n", entry.Name, rel.Version)
			return nil
		}

		fmt.Printf("%s v%s\n\n", entry.Name, rel.Version)
		rendered, err := glamour.Render(rel.Notes, "auto")
		if err != nil {
			// Fall back to the raw markdown on render failure.
			fmt.Println(rel.Notes)
			return nil
		}
		fmt.Println(strings.TrimRight(rendered, "\n"))
		return nil
	},
}

func init() {
	releasesCmd.Flags().Bool("refresh", false, "bypass the feed cache")
	releasesCmd.AddCommand(releaseNotesCmd)
	rootCmd.AddCommand(releasesCmd)
}
