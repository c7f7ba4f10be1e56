package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/riverrun-transit/gtfs-tripify/config"
	"github.com/riverrun-transit/gtfs-tripify/fetch"
)

var pollURL string

// pollCmd fetches one GTFS-Realtime snapshot and writes it into a directory
// of the kind logifyCmd reads, using the feed URL and timeout configured in
// config.yml's fetch section unless overridden by --url. It is a CLI
// convenience only; none of the decode/sanitize/logbook/merge/ops packages
// import fetch.
var pollCmd = &cobra.Command{
	Use:   "poll <output_dir>",
	Short: "Fetch one GTFS-Realtime snapshot and save it to output_dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir := args[0]

		url := pollURL
		if url == "" {
			url = config.Config.Fetch.FeedURL
		}
		if url == "" {
			return fmt.Errorf("poll: no feed URL given; pass --url or set fetch.feedURL in config.yml")
		}

		ctx := cmd.Context()
		if ms := config.Config.Fetch.TimeoutMS; ms > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
			defer cancel()
		}

		client := fetch.NewClient()
		raw, err := client.Fetch(ctx, url)
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if raw == nil {
			return fmt.Errorf("poll: empty feed URL")
		}

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		name := fmt.Sprintf("%d.pb", time.Now().Unix())
		if err := os.WriteFile(filepath.Join(outputDir, name), raw, 0o644); err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		return nil
	},
}

func init() {
	pollCmd.Flags().StringVar(&pollURL, "url", "", "feed URL (overrides config.yml's fetch.feedURL)")
	rootCmd.AddCommand(pollCmd)
}
