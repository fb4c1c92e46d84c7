package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain/geo"
)

var distanceCmd = &cobra.Command{
	Use:   "distance <reference> <city>...",
	Short: "Resolve distances from a reference city",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDistance,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the geodistance cache",
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict <city>...",
	Short: "Drop cached coordinates so the next lookup geocodes again",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheEvict,
}

func init() {
	cacheCmd.AddCommand(cacheEvictCmd)
	rootCmd.AddCommand(distanceCmd, cacheCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	a, _, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	reference, cities := args[0], args[1:]
	distances := a.Geo.BatchDistance(cmd.Context(), reference, cities)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "CITY\tKM FROM %s\n", reference)
	for i, c := range cities {
		fmt.Fprintf(tw, "%s\t%s\n", c, formatOptional(distances[i], 1))
	}
	return tw.Flush()
}

func runCacheEvict(cmd *cobra.Command, args []string) error {
	a, logger, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, city := range args {
		key := geo.CityKey(city)
		if key == "" {
			continue
		}
		if err := a.GeoCache.EvictCoordinates(cmd.Context(), key); err != nil {
			return fmt.Errorf("evict %q: %w", city, err)
		}
		logger.Debug("Evicted cached coordinates", zap.String("city", key))
		fmt.Fprintf(cmd.OutOrStdout(), "evicted %s\n", key)
	}
	return nil
}
