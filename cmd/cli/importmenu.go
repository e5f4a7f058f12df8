package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/foodcart/order-service/internal/database"
	"github.com/foodcart/order-service/internal/parsers/menuxlsx"
)

var importMenuDryRun bool

// importMenuCmd represents the import-menu command
var importMenuCmd = &cobra.Command{
	Use:   "import-menu <file.xlsx>",
	Short: "Import restaurants, products, and menu entries from a workbook",
	Long: `Read a menu workbook and upsert its restaurants, products, and menu
availability into the database. The expected columns are restaurant,
address, phone, product, price, available. Invalid rows are reported and
skipped without aborting the import.`,
	Example: `  order-service import-menu ./menus/spring.xlsx
  order-service import-menu ./menus/spring.xlsx --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImportMenu,
}

func init() {
	rootCmd.AddCommand(importMenuCmd)

	importMenuCmd.Flags().BoolVar(&importMenuDryRun, "dry-run", false, "Parse and validate the workbook without writing to the database")
}

func runImportMenu(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	rows, rowErrors, err := menuxlsx.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for _, rowErr := range rowErrors {
		logger.Warn().Int("row", rowErr.RowNumber).Str("reason", rowErr.Reason).Msg("Skipped menu row")
	}
	logger.Info().
		Int("rows", len(rows)).
		Int("skipped", len(rowErrors)).
		Msg("Workbook parsed")

	if importMenuDryRun {
		logger.Info().Msg("Dry run, nothing written")
		return nil
	}

	pool := database.Pool()
	restaurantIDs := make(map[string]int64)
	productIDs := make(map[string]int64)
	imported := 0

	for _, row := range rows {
		restaurantID, ok := restaurantIDs[row.RestaurantName]
		if !ok {
			restaurantID, err = database.UpsertRestaurant(ctx, pool, row.RestaurantName, row.RestaurantAddress, row.RestaurantPhone)
			if err != nil {
				return fmt.Errorf("failed to upsert restaurant %q: %w", row.RestaurantName, err)
			}
			restaurantIDs[row.RestaurantName] = restaurantID
		}

		productID, ok := productIDs[row.ProductName]
		if !ok {
			productID, err = database.UpsertProduct(ctx, pool, row.ProductName, row.Price)
			if err != nil {
				return fmt.Errorf("failed to upsert product %q: %w", row.ProductName, err)
			}
			productIDs[row.ProductName] = productID
		}

		if err := database.UpsertMenuEntry(ctx, pool, restaurantID, productID, row.Available); err != nil {
			return fmt.Errorf("failed to upsert menu entry %q at %q: %w", row.ProductName, row.RestaurantName, err)
		}
		imported++
	}

	logger.Info().
		Int("menu_entries", imported).
		Int("restaurants", len(restaurantIDs)).
		Int("products", len(productIDs)).
		Msg("Menu import complete")
	return nil
}
