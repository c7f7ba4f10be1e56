package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/riverrun-transit/gtfs-tripify/config"
	"github.com/riverrun-transit/gtfs-tripify/logbook"
	"github.com/riverrun-transit/gtfs-tripify/merge"
	"github.com/riverrun-transit/gtfs-tripify/model"
	"github.com/riverrun-transit/gtfs-tripify/ops"
	"github.com/riverrun-transit/gtfs-tripify/sanitize"
)

var (
	logifyTo    string
	logifyClean bool
)

var logifyCmd = &cobra.Command{
	Use:   "logify <input_dir> <output_file>",
	Short: "Build a logbook from a directory of GTFS-Realtime snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir, outputFile := args[0], args[1]

		raw, err := readSnapshots(inputDir)
		if err != nil {
			return fmt.Errorf("logify: %w", err)
		}
		if len(raw) == 0 {
			return fmt.Errorf("logify: no snapshot files found in %s", inputDir)
		}

		lb, _, streamStart, parseErrors, err := buildParallel(cmd.Context(), raw)
		if err != nil {
			return fmt.Errorf("logify: %w", err)
		}
		for _, pe := range parseErrors {
			fmt.Fprintf(os.Stderr, "gtfs-tripify: %s: %v\n", pe.Kind, pe.Details)
		}

		if logifyClean {
			lb = ops.CutCancellations(lb, config.Config.Clean.CutCancellationsThreshold, config.Config.RouteCutExceptionSet())
			lb = ops.DiscardPartialLogs(lb, streamStart)
		}

		format := logifyTo
		if !cmd.Flags().Changed("to") && config.Config.Output.Format != "" {
			format = config.Config.Output.Format
		}
		return writeLogbook(outputFile, format, lb)
	},
}

func init() {
	logifyCmd.Flags().StringVar(&logifyTo, "to", "csv", "output format: csv|gtfs")
	logifyCmd.Flags().BoolVar(&logifyClean, "clean", false, "cut cancellations and discard partial trips before writing")
}

// readSnapshots returns the raw bytes of every file in dir, sorted by file
// name — callers are expected to name snapshot files so that lexical order
// matches arrival order (e.g. zero-padded timestamps).
func readSnapshots(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	raw := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		raw = append(raw, data)
	}
	return raw, nil
}

// buildParallel partitions the decoded-and-sanitised update stream into
// contiguous windows, builds a logbook per window on a bounded worker pool,
// and stitches the results back together with merge.Logbooks. logbook.Build
// itself stays single-threaded and synchronous; all parallelism lives here,
// at the caller, one window per worker.
func buildParallel(ctx context.Context, raw [][]byte) (model.Logbook, model.Timestamps, int64, []model.ParseError, error) {
	updates, parseErrors := decodeAll(raw)
	sanitised, sanErrs := sanitize.Sanitize(updates)
	parseErrors = append(parseErrors, sanErrs...)

	if len(sanitised) == 0 {
		return model.Logbook{}, model.Timestamps{}, 0, parseErrors, nil
	}
	streamStart := sanitised[0].Timestamp

	workers := runtime.GOMAXPROCS(0)
	if workers > len(sanitised) {
		workers = len(sanitised)
	}
	if workers < 1 {
		workers = 1
	}

	chunks := chunk(sanitised, workers)
	windows := make([]merge.Window, len(chunks))

	g, _ := errgroup.WithContext(ctx)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			lb, ts := logbook.Build(c)
			windows[i] = merge.Window{Logbook: lb, Timestamps: ts}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, 0, nil, err
	}

	lb, ts, err := merge.Logbooks(windows)
	if err != nil {
		return nil, nil, 0, nil, err
	}
	return lb, ts, streamStart, parseErrors, nil
}

func chunk(updates []model.Update, n int) [][]model.Update {
	if n <= 1 {
		return [][]model.Update{updates}
	}
	size := (len(updates) + n - 1) / n
	chunks := make([][]model.Update, 0, n)
	for i := 0; i < len(updates); i += size {
		end := i + size
		if end > len(updates) {
			end = len(updates)
		}
		chunks = append(chunks, updates[i:end])
	}
	return chunks
}
