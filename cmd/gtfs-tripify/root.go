package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverrun-transit/gtfs-tripify/config"
)

var rootCmd = &cobra.Command{
	Use:   "gtfs-tripify",
	Short: "Reconstruct transit arrival/departure history from GTFS-Realtime snapshots",
	Long: `gtfs-tripify builds a ground-truth history of vehicle arrivals and
departures from a time-ordered stream of GTFS-Realtime snapshots, and can
merge histories built from separate time windows.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadAppConfig(); err != nil {
			return fmt.Errorf("loading config.yml: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logifyCmd)
	rootCmd.AddCommand(mergeCmd)
}
