package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/model"
)

func newTierCmd(a *app) *cobra.Command {
	var (
		points     int64
		tiersFile  string
		businessID string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Resolve the loyalty tier for a point balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := model.TierResult{BusinessID: businessID, Points: points}

			switch {
			case tiersFile != "":
				tiers, err := loadTiers(tiersFile)
				if err != nil {
					return err
				}
				result.Tiers = tiers
			case businessID != "":
				catalog, err := a.newCatalog(nil)
				if err != nil {
					return err
				}
				defer catalog.Close()
				result.Tiers, result.DefaultTiers = catalog.TiersOrDefault(cmd.Context(), businessID)
			default:
				result.Tiers = a.cfg.DefaultTiers
			}

			res, err := loyalty.Resolve(points, result.Tiers)
			if err != nil {
				return err
			}
			result.Resolution = res

			if asJSON {
				out, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return printTier(cmd.OutOrStdout(), &result)
		},
	}

	cmd.Flags().Int64Var(&points, "points", 0, "Accumulated loyalty points")
	cmd.Flags().StringVar(&tiersFile, "tiers", "", "YAML file with an ascending list of tiers")
	cmd.Flags().StringVar(&businessID, "business", "", "Business id to look up in the tier catalog")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("tiers", "business")
	return cmd
}

func loadTiers(path string) ([]loyalty.Tier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiers: %w", err)
	}
	var tiers []loyalty.Tier
	if err := yaml.Unmarshal(data, &tiers); err != nil {
		return nil, fmt.Errorf("failed to parse tiers %s: %w", path, err)
	}
	return tiers, nil
}

func printTier(w io.Writer, r *model.TierResult) error {
	if r.DefaultTiers {
		fmt.Fprintln(w, "Tier catalog unavailable, using default tiers")
	}
	fmt.Fprintf(w, "Current tier: %s (%d points)\n", r.Current.Name, r.Current.MinPoints)
	for _, b := range r.Current.Benefits {
		fmt.Fprintf(w, "  - %s\n", b)
	}
	if r.Next == nil {
		_, err := fmt.Fprintln(w, "Top tier reached")
		return err
	}
	fmt.Fprintf(w, "Next tier: %s (%d points, %d to go)\n", r.Next.Name, r.Next.MinPoints, r.PointsToNext)
	_, err := fmt.Fprintf(w, "Progress: %.1f%%\n", r.ProgressPercent)
	return err
}
