// File: cmd/maturity.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclens/riskboard/internal/render"
	"github.com/seclens/riskboard/internal/views"
)

// newMaturityCmd creates the `maturity` command. Unlike the other read
// commands this one hits the internal scan endpoint live; CMM ratings are
// never cached in bundles.
func newMaturityCmd() *cobra.Command {
	var (
		l2    bool
		limit int
	)

	maturityCmd := &cobra.Command{
		Use:   "maturity <company-id>",
		Short: "Show NIST CSF control maturity from the internal scan feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			rows, err := app.client.InternalScan(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("fetching internal scan data: %w", err)
			}

			out := cmd.OutOrStdout()
			if l2 {
				l2Rows := views.L2DomainMaturity(rows, args[0])
				if len(l2Rows) == 0 {
					fmt.Fprintln(out, "no CMM ratings for this company")
					return nil
				}
				render.L2DomainMaturity(out, l2Rows)
				return nil
			}

			ctrlRows := views.ControlMaturity(rows, args[0])
			if len(ctrlRows) == 0 {
				fmt.Fprintln(out, "no rated controls for this company")
				return nil
			}
			render.ControlMaturity(out, ctrlRows)
			return nil
		},
	}

	maturityCmd.Flags().BoolVar(&l2, "l2", false, "aggregate by CSF L2 domain instead of per control")
	maturityCmd.Flags().IntVar(&limit, "limit", 1000, "row limit requested from the internal scan endpoint")

	return maturityCmd
}
