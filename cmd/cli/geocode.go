package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foodcart/order-service/internal/geocoder"
)

// geocodeCmd represents the geocode command
var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve a single address to coordinates",
	Long: `Send one address to the geocoding provider and print the resolved
latitude and longitude. Useful for checking provider connectivity and how
an address string is interpreted.`,
	Example: `  order-service geocode "Moscow, Tverskaya 7"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runGeocode,
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	if cfg.Geocoder.APIKey == "" {
		return fmt.Errorf("GEOCODER_API_KEY not set")
	}

	address := args[0]
	client := geocoder.NewClient(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout)

	coords, err := client.Resolve(context.Background(), address)
	if errors.Is(err, geocoder.ErrUnresolved) {
		logger.Warn().Str("address", address).Msg("Address not found by provider")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to geocode %q: %w", address, err)
	}

	fmt.Printf("%s\n  latitude:  %.6f\n  longitude: %.6f\n", address, coords.Latitude, coords.Longitude)
	return nil
}
