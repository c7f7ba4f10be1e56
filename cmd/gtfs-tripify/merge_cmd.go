package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riverrun-transit/gtfs-tripify/config"
	"github.com/riverrun-transit/gtfs-tripify/merge"
	"github.com/riverrun-transit/gtfs-tripify/model"
	"github.com/riverrun-transit/gtfs-tripify/ops"
)

var (
	mergeTo    string
	mergeClean bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge <in1> <in2>... <out>",
	Short: "Stitch logbooks built from disjoint, contiguous time windows into one",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, output := args[:len(args)-1], args[len(args)-1]

		windows := make([]merge.Window, 0, len(inputs))
		for _, path := range inputs {
			lb, err := readLogbookCSV(path)
			if err != nil {
				return fmt.Errorf("merge: reading %s: %w", path, err)
			}
			windows = append(windows, merge.Window{
				Logbook:    lb,
				Timestamps: merge.DeriveTimestamps(lb),
			})
		}

		lb, ts, err := merge.Logbooks(windows)
		if err != nil {
			return fmt.Errorf("merge: %w", err)
		}

		if mergeClean {
			lb = ops.CutCancellations(lb, config.Config.Clean.CutCancellationsThreshold, config.Config.RouteCutExceptionSet())
			lb = ops.DiscardPartialLogs(lb, streamStartOf(ts))
		}

		format := mergeTo
		if !cmd.Flags().Changed("to") && config.Config.Output.Format != "" {
			format = config.Config.Output.Format
		}
		return writeLogbook(output, format, lb)
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeTo, "to", "csv", "output format: csv|gtfs")
	mergeCmd.Flags().BoolVar(&mergeClean, "clean", false, "cut cancellations and discard partial trips before writing")
}

func readLogbookCSV(path string) (model.Logbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ops.FromCSV(f)
}

// streamStartOf approximates the merged window's overall start time as the
// smallest per-trip timestamp, since the merge CLI path never sees the raw
// update stream directly.
func streamStartOf(ts model.Timestamps) int64 {
	var min int64
	set := false
	for _, t := range ts {
		if !set || t < min {
			min, set = t, true
		}
	}
	return min
}
