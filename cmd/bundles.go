// File: cmd/bundles.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclens/riskboard/internal/render"
)

// newBundlesCmd creates the `bundles` command, which lists the cached
// bundles. With --ensure an empty cache is populated first; otherwise the
// command never touches the network.
func newBundlesCmd() *cobra.Command {
	var ensure bool

	bundlesCmd := &cobra.Command{
		Use:   "bundles",
		Short: "List cached company bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			if ensure {
				if _, err := app.store.EnsureInitial(cmd.Context()); err != nil {
					return fmt.Errorf("populating empty cache: %w", err)
				}
			}

			bundles := app.store.List()
			if len(bundles) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"no bundles in %s (run `riskboard rebuild` first)\n", app.store.Dir())
				return nil
			}
			render.BundleList(cmd.OutOrStdout(), bundles)
			return nil
		},
	}

	bundlesCmd.Flags().BoolVar(&ensure, "ensure", false, "build all bundles first when the cache is empty")
	return bundlesCmd
}
