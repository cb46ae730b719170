package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the apps this hub can manage",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tREPO\tPREMIUM")
		for _, entry := range d.catalog {
			repo := "-"
			if entry.HasRepo() {
				repo = entry.RepoOwner + "/" + entry.RepoName
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.ID, entry.Name, repo, yesNo(entry.Premium))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
