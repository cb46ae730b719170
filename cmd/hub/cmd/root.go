package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hub",
	Short: "Install, update and launch Enderfall apps",
	Long: `The Enderfall hub keeps the companion apps on this machine installed
and up to date.

It resolves the latest releases from each app's release feed, downloads
and runs installers silently, tracks installed versions and install
locations, and launches whatever is installed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hub %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
