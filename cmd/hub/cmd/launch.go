package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enderfall/hub/internal/core"
)

var launchCmd = &cobra.Command{
	Use:   "launch <app-id>",
	Short: "Launch an installed app",
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

		if entry.Premium {
			if err := checkEntitlement(d, entry); err != nil {
				return err
			}
		}

		dev, _ := cmd.Flags().GetBool("dev")
		if err := d.orch.Launch(entry.ID, dev); err != nil {
			return err
		}
		fmt.Printf("✓ %s launched\n", entry.Name)
		return nil
	},
}

// checkEntitlement gates premium apps on the entitlement service. With no
// service configured, premium apps stay locked.
func checkEntitlement(d *deps, entry core.AppCatalogEntry) error {
	if d.cfg.EntitlementURL == "" {
		return fmt.Errorf("%s requires an active entitlement; no entitlement service configured", entry.Name)
	}
	ec := core.NewEntitlementClient(d.cfg.EntitlementURL, d.cfg.FeedToken)
	entitlements, err := ec.FetchEntitlements(context.Background())
	if err != nil {
		return fmt.Errorf("checking entitlement for %s: %w", entry.Name, err)
	}
	if !core.PremiumAllowed(entry, entitlements) {
		return fmt.Errorf("%s requires an active entitlement", entry.Name)
	}
	return nil
}

func init() {
	launchCmd.Flags().Bool("dev", false, "launch the dev workspace instead of the installed binary")
	rootCmd.AddCommand(launchCmd)
}
