// File: cmd/companies.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclens/riskboard/internal/views"
)

// newCompaniesCmd creates the `companies` command: the picker labels for the
// cached companies, one per line.
func newCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List cached companies as picker labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			labels, _ := views.CompanyOptions(app.store.List())
			if len(labels) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"no bundles in %s (run `riskboard rebuild` first)\n", app.store.Dir())
				return nil
			}
			for _, label := range labels {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}
