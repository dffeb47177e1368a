// File: cmd/domain.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seclens/riskboard/internal/render"
	"github.com/seclens/riskboard/internal/views"
)

// newDomainCmd creates the `domain` command: a single domain's score and raw
// findings, optionally filtered.
func newDomainCmd() *cobra.Command {
	var (
		filter      views.FindingFilter
		showFilters bool
	)

	domainCmd := &cobra.Command{
		Use:   "domain <domain-id>",
		Short: "Show a domain's score and findings from the cached bundles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			score, findings := views.DomainOverview(app.store.List(), args[0])
			if score == nil && findings == nil {
				return fmt.Errorf("domain %s not found in any cached bundle", args[0])
			}

			out := cmd.OutOrStdout()
			if showFilters {
				opts := views.FindingFilterOptions(findings)
				fmt.Fprintf(out, "ips:    %s\n", strings.Join(opts.IPs, ", "))
				fmt.Fprintf(out, "types:  %s\n", strings.Join(opts.Types, ", "))
				fmt.Fprintf(out, "levels: %s\n", strings.Join(opts.Levels, ", "))
				fmt.Fprintf(out, "dates:  %s\n", strings.Join(opts.Dates, ", "))
				return nil
			}

			filtered := views.FilterFindings(findings, filter)
			render.DomainOverview(out, args[0], score, filtered)
			return nil
		},
	}

	domainCmd.Flags().StringVar(&filter.IP, "ip", "", "only findings for this IP address")
	domainCmd.Flags().StringVar(&filter.Type, "type", "", "only findings of this type")
	domainCmd.Flags().StringVar(&filter.Level, "level", "", "only findings at this severity level")
	domainCmd.Flags().StringVar(&filter.StartDate, "from", "", "only findings found on or after this date (YYYY-MM-DD)")
	domainCmd.Flags().StringVar(&filter.EndDate, "to", "", "only findings found on or before this date (YYYY-MM-DD)")
	domainCmd.Flags().BoolVar(&showFilters, "show-filters", false, "list the filter values present in this domain's findings")

	return domainCmd
}
