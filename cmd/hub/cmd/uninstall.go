package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <app-id>",
	Short: "Remove an installed app and its records",
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

		if err := d.orch.Uninstall(context.Background(), entry.ID); err != nil {
			return err
		}
		fmt.Printf("✓ %s uninstalled\n", entry.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
