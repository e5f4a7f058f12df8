package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/foodcart/order-service/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Apply the order service schema to the configured database. All
statements are idempotent, so running migrate repeatedly is safe.`,
	Example: `  order-service migrate`,
	Args:    cobra.NoArgs,
	RunE:    runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if err := database.EnsureSchema(context.Background(), database.Pool()); err != nil {
		return err
	}
	logger.Info().Msg("Schema is up to date")
	return nil
}
