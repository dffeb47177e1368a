// File: cmd/show.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seclens/riskboard/internal/render"
	"github.com/seclens/riskboard/internal/views"
)

// newShowCmd creates the `show` command: the per-company summary and
// category score table, read from the cache.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <company-id>",
		Short: "Show a company's grade and category scores from its cached bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			b := app.store.Read(args[0])
			if b.IsZero() {
				return fmt.Errorf("no bundle for company %s (run `riskboard rebuild --company %s`)",
					args[0], args[0])
			}

			out := cmd.OutOrStdout()
			render.CompanySummary(out, b, views.CompanySummary(b))
			render.CategoryScores(out, views.CategoryScores(b))
			return nil
		},
	}
}
