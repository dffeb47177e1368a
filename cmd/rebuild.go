// File: cmd/rebuild.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// newRebuildCmd creates the `rebuild` command, which refreshes the on-disk
// bundle cache from the live API.
func newRebuildCmd() *cobra.Command {
	var (
		companyID string
		missing   bool
		stale     bool
	)

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild cached company bundles from the risk API",
		Long: `Rebuild fetches companies, domains, scores and findings from the risk API
and writes one JSON bundle per company into the cache directory. Without
flags every company is rebuilt; --company, --missing and --stale narrow the
work.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind only when set, so the flag's default does not shadow the
			// config file value.
			if cmd.Flags().Changed("concurrency") {
				return viper.BindPFlag("builder.concurrency", cmd.Flags().Lookup("concurrency"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp()
			if err != nil {
				return err
			}

			switch {
			case companyID != "":
				path, err := app.store.RebuildOne(ctx, companyID)
				if err != nil {
					return fmt.Errorf("rebuilding company %s: %w", companyID, err)
				}
				if path == "" {
					return fmt.Errorf("company %s not found upstream", companyID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			case missing:
				n, err := app.store.RebuildMissing(ctx)
				if err != nil {
					return fmt.Errorf("rebuilding missing bundles: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d missing bundle(s)\n", n)

			case stale:
				n, err := app.store.RebuildStale(ctx, app.cfg.Builder.StaleTTL)
				if err != nil {
					return fmt.Errorf("rebuilding stale bundles: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "refreshed %d stale bundle(s)\n", n)

			default:
				paths, err := app.store.RebuildAll(ctx)
				if err != nil {
					return fmt.Errorf("rebuilding all bundles: %w", err)
				}
				app.log.Info("Rebuild finished", zap.Int("bundles", len(paths)))
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bundle(s) to %s\n",
					len(paths), app.store.Dir())
			}
			return nil
		},
	}

	rebuildCmd.Flags().StringVar(&companyID, "company", "", "rebuild only this company id")
	rebuildCmd.Flags().BoolVar(&missing, "missing", false, "rebuild only companies without a cached bundle")
	rebuildCmd.Flags().BoolVar(&stale, "stale", false, "rebuild only bundles older than builder.stale_ttl")
	rebuildCmd.Flags().Int("concurrency", 1, "parallel domain fetches per company")
	rebuildCmd.MarkFlagsMutuallyExclusive("company", "missing", "stale")

	return rebuildCmd
}
