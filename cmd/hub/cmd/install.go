package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
)

var installCmd = &cobra.Command{
	Use:   "install <app-id>",
	Short: "Download and install the latest release of an app",
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

		baseDir, _ := cmd.Flags().GetString("location")
		noShortcuts, _ := cmd.Flags().GetBool("no-shortcuts")
		from, _ := cmd.Flags().GetString("from")

		var rel core.ReleaseInfo
		if from != "" {
			// Local install: the payload is on disk, no release resolution.
			version, _ := cmd.Flags().GetString("as-version")
			rel = core.ReleaseInfo{
				Version:       version,
				InstallerType: installerTypeForPath(from),
			}
		} else {
			rel, err = resolveOne(d, entry.ID, false)
			if err != nil {
				return err
			}
		}

		fmt.Printf("Installing %s v%s...\n", entry.Name, rel.Version)
		err = d.orch.Install(context.Background(), entry.ID, rel, core.InstallOptions{
			BaseDir:                 baseDir,
			LocalInstallerPath:      from,
			CreateDesktopShortcut:   !noShortcuts,
			CreateStartMenuShortcut: !noShortcuts,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s v%s installed\n", entry.Name, rel.Version)
		return nil
	},
}

// installerTypeForPath infers the installer type from a local file name.
func installerTypeForPath(path string) core.InstallerType {
	if strings.EqualFold(filepath.Ext(path), ".msi") {
		return core.InstallerTypeMSI
	}
	return core.InstallerTypeEXE
}

func init() {
	installCmd.Flags().String("location", "", "install base directory (overrides the stored location)")
	installCmd.Flags().Bool("no-shortcuts", false, "skip desktop and start-menu shortcuts")
	installCmd.Flags().String("from", "", "install from a local installer file instead of the release feed")
	installCmd.Flags().String("as-version", "local", "version to record for a --from install")
	rootCmd.AddCommand(installCmd)
}
