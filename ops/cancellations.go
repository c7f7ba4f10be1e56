package ops

import "github.com/riverrun-transit/gtfs-tripify/model"

// RouteCutExceptions is an allowlist of route ids exempt from
// CutCancellations, for routes (e.g. short shuttles) whose legitimately
// short trips would otherwise be mistaken for cancellation stubs.
type RouteCutExceptions map[string]bool

// NewRouteCutExceptions builds a RouteCutExceptions set from route ids.
func NewRouteCutExceptions(routeIDs ...string) RouteCutExceptions {
	ex := make(RouteCutExceptions, len(routeIDs))
	for _, r := range routeIDs {
		ex[r] = true
	}
	return ex
}

// DefaultCutCancellationsThreshold is a starting point for the mean
// inter-update-gap multiplier: a trailing STOPPED_OR_SKIPPED run is cut only
// if its span is under half a typical snapshot interval, which in practice
// means it was announced and dropped within a single update cycle. Tune per
// feed; there is no universally correct value, and a feed with legitimately
// short hops will need a lower threshold or a route exception.
const DefaultCutCancellationsThreshold = 0.5

// CutCancellations strips the maximal trailing run of STOPPED_OR_SKIPPED
// rows from each log whose (maximum_time - minimum_time) span is shorter
// than threshold times the log's mean inter-update gap. Scanning stops at
// the first STOPPED_AT row encountered from the tail; a log with a route id
// in exceptions is left untouched. exceptions may be nil.
func CutCancellations(lb model.Logbook, threshold float64, exceptions RouteCutExceptions) model.Logbook {
	out := make(model.Logbook, len(lb))
	for uid, log := range lb {
		out[uid] = cutCancellationsLog(log, threshold, exceptions)
	}
	return out
}

func cutCancellationsLog(log model.Log, threshold float64, exceptions RouteCutExceptions) model.Log {
	if len(log) == 0 {
		return log
	}
	if exceptions != nil && exceptions[majorityRoute(log)] {
		return append(model.Log{}, log...)
	}

	// Trimming can shift the log's mean inter-update gap, which can expose a
	// further stub; iterating to a fixpoint makes the operation idempotent.
	trimmed := append(model.Log{}, log...)
	for {
		cut := cutPoint(trimmed, threshold)
		if cut == len(trimmed) {
			return trimmed
		}
		trimmed = trimmed[:cut]
	}
}

// cutPoint returns the index at which the trailing cancellation-stub run
// begins, or len(log) if there is nothing to cut in this pass.
func cutPoint(log model.Log, threshold float64) int {
	gap := meanInterUpdateGap(log)
	if gap <= 0 {
		return len(log)
	}

	cut := len(log)
	for i := len(log) - 1; i >= 0; i-- {
		row := log[i]
		if row.Kind != model.StoppedOrSkipped {
			break
		}
		if row.MinimumTime == nil || row.MaximumTime == nil {
			break
		}
		span := float64(*row.MaximumTime - *row.MinimumTime)
		if span >= gap*threshold {
			break
		}
		cut = i
	}
	return cut
}

// meanInterUpdateGap approximates the feed's snapshot cadence from the
// consecutive deltas of a log's own latest_information_time column, since
// ops operates on finished logbooks without access to the raw update
// stream's timestamps.
func meanInterUpdateGap(log model.Log) float64 {
	times := make([]int64, 0, len(log))
	seen := map[int64]bool{}
	for _, a := range log {
		if seen[a.LatestInformationTime] {
			continue
		}
		seen[a.LatestInformationTime] = true
		times = append(times, a.LatestInformationTime)
	}
	if len(times) < 2 {
		return 0
	}
	var total int64
	for i := 1; i < len(times); i++ {
		total += times[i] - times[i-1]
	}
	return float64(total) / float64(len(times)-1)
}

func majorityRoute(log model.Log) string {
	counts := map[string]int{}
	for _, a := range log {
		counts[a.RouteID]++
	}
	best, bestCount := "", 0
	for _, a := range log {
		if counts[a.RouteID] > bestCount {
			best, bestCount = a.RouteID, counts[a.RouteID]
		}
	}
	return best
}
