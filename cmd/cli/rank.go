package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodcart/order-service/internal/database"
	"github.com/foodcart/order-service/internal/geocoder"
	"github.com/foodcart/order-service/internal/matcher"
	"github.com/foodcart/order-service/internal/ranker"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidate restaurants for unprocessed orders",
	Long: `Load all unprocessed orders, match them against restaurant menus, and
print candidate restaurants ranked by distance from the order address.
Restaurants whose address (or the order address) cannot be geocoded are
listed last without a distance.`,
	Example: `  order-service rank
  order-service rank --config ./config/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	menuRows, lineRows, err := database.LoadRankingSnapshot(ctx, database.Pool())
	if err != nil {
		return fmt.Errorf("failed to load orders and menus: %w", err)
	}

	aggregates := matcher.Match(menuRows, lineRows)
	if len(aggregates) == 0 {
		logger.Info().Msg("No unprocessed orders")
		return nil
	}

	client := geocoder.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout)
	cache := geocoder.NewCache(client)
	engine := ranker.New(cache, ranker.Config{MaxConcurrentResolves: cfg.Geocoder.MaxConcurrentResolves})

	rankings, err := engine.Rank(ctx, aggregates)
	if err != nil {
		return fmt.Errorf("failed to rank orders: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tADDRESS\tTOTAL\tRESTAURANT\tDISTANCE KM")
	for _, order := range rankings {
		if len(order.Restaurants) == 0 {
			fmt.Fprintf(w, "%d\t%s\t%s\t(no candidates)\t\n", order.OrderID, order.Address, formatPrice(order.TotalPrice))
			continue
		}
		for i, r := range order.Restaurants {
			distance := "unknown"
			if r.DistanceKm != nil {
				distance = fmt.Sprintf("%.3f", *r.DistanceKm)
			}
			if i == 0 {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", order.OrderID, order.Address, formatPrice(order.TotalPrice), r.Name, distance)
			} else {
				fmt.Fprintf(w, "\t\t\t%s\t%s\n", r.Name, distance)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logger.Info().Int("orders", len(rankings)).Msg("Ranking complete")
	return nil
}

// formatPrice renders minor currency units as a decimal string
func formatPrice(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
