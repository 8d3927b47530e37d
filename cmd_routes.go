package main

import (
	"fmt"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"momo-engine/internal/operations"
	"momo-engine/internal/ussd"
)

func newRoutesCmd(a *app) *cobra.Command {
	var (
		provider string
		country  string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the supported provider/country payment routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := operations.FilterRoutes(provider, country)
			a.logger.Debug("listing routes", zap.Int("count", len(routes)))

			if asJSON {
				out, err := json.MarshalIndent(routes, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROVIDER\tCOUNTRY\tSHAPE\tDIAL")
			for _, r := range routes {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ussd.ProviderName(r.Provider), r.Country, r.Shape, dialHint(r))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Only list routes for this provider")
	cmd.Flags().StringVar(&country, "country", "", "Only list routes in this country")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print routes as JSON")
	return cmd
}

func dialHint(r ussd.Route) string {
	if r.Shape == ussd.ShapeFixedCode {
		return "*" + r.Sequence + "*{" + r.RecipientKey + "}*{amount}#"
	}
	return r.Menu
}
