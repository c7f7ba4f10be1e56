package merge

import (
	"fmt"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

// Window is one logbook built over a contiguous slice of the overall time
// range, paired with the logbook-timestamps the Builder recorded for it.
type Window struct {
	Logbook    model.Logbook
	Timestamps model.Timestamps
}

// Logbooks walks windows left to right, stitching any trip whose
// EN_ROUTE_TO tail in the accumulator is continued by a matching feed
// trip_id in the next window. windows must already be in strict ascending
// time order; Logbooks does not sort them, but it does verify that order:
// adjacent windows whose timestamp ranges overlap are rejected before any
// splicing happens, since an overlap means the caller's windows weren't
// actually a partition of the timeline and any stitching decision made
// over them would be unreliable.
func Logbooks(windows []Window) (model.Logbook, model.Timestamps, error) {
	if err := checkContiguous(windows); err != nil {
		return nil, nil, err
	}

	acc := model.Logbook{}
	accTS := model.Timestamps{}

	for i, w := range windows {
		if i == 0 {
			for uid, log := range w.Logbook {
				acc[uid] = append(model.Log{}, log...)
			}
			for uid, ts := range w.Timestamps {
				accTS[uid] = ts
			}
			continue
		}

		matched := map[model.UniqueTripID]bool{} // uids in w consumed by a splice

		for uid, log := range acc {
			if len(log) == 0 || !isEnRouteTail(log) {
				continue
			}
			feedID := log[0].TripID

			contUID, contLog, tStart, ok := findContinuation(w, feedID, accTS[uid], matched)
			if !ok {
				continue
			}

			acc[uid] = spliceTail(log, contLog, tStart)
			if ts, ok := w.Timestamps[contUID]; ok {
				accTS[uid] = ts
			}
			matched[contUID] = true
		}

		for uid, log := range w.Logbook {
			if matched[uid] {
				continue
			}
			if _, exists := acc[uid]; exists {
				return nil, nil, fmt.Errorf("merge: unique trip id %q collides across windows %d and %d", uid, i-1, i)
			}
			acc[uid] = append(model.Log{}, log...)
			accTS[uid] = w.Timestamps[uid]
		}
	}

	return acc, accTS, nil
}

// checkContiguous computes each window's observed timestamp range and
// rejects adjacent windows whose ranges overlap. A window with no
// timestamped data at all (an empty logbook) carries no range and is
// skipped rather than compared.
func checkContiguous(windows []Window) error {
	ranges := make([]struct {
		min, max int64
		has      bool
	}, len(windows))

	for i, w := range windows {
		min, max, ok := windowRange(w)
		ranges[i].min, ranges[i].max, ranges[i].has = min, max, ok
	}

	prev := -1
	for i := range windows {
		if !ranges[i].has {
			continue
		}
		if prev >= 0 && ranges[i].min <= ranges[prev].max {
			return fmt.Errorf("merge: window %d (range %d-%d) overlaps window %d (range %d-%d)",
				i, ranges[i].min, ranges[i].max, prev, ranges[prev].min, ranges[prev].max)
		}
		prev = i
	}
	return nil
}

// windowRange returns the smallest and largest timestamp observed anywhere
// in a window: across every row's minimum_time, maximum_time and
// latest_information_time, and every entry in Timestamps, in case a log's rows don't otherwise carry
// the window's true extent. ok is false for a window with no data to range
// over.
func windowRange(w Window) (min, max int64, ok bool) {
	consider := func(t int64) {
		if !ok || t < min {
			min = t
		}
		if !ok || t > max {
			max = t
		}
		ok = true
	}

	for _, log := range w.Logbook {
		for _, a := range log {
			if a.MinimumTime != nil {
				consider(*a.MinimumTime)
			}
			if a.MaximumTime != nil {
				consider(*a.MaximumTime)
			}
			consider(a.LatestInformationTime)
		}
	}
	for _, t := range w.Timestamps {
		consider(t)
	}
	return min, max, ok
}

// isEnRouteTail reports whether a log's trailing row is still EN_ROUTE_TO —
// the only state in which a trip can be continued by a later window.
func isEnRouteTail(log model.Log) bool {
	return log[len(log)-1].Kind == model.EnRouteTo
}

// findContinuation looks in window w for the log whose feed trip_id matches
// feedID, was first seen (approximated by its earliest recorded
// minimum_time) earliest among candidates, and strictly after sinceTS —
// the accumulator's last known observation of that physical trip.
func findContinuation(w Window, feedID string, sinceTS int64, taken map[model.UniqueTripID]bool) (model.UniqueTripID, model.Log, int64, bool) {
	var bestUID model.UniqueTripID
	var bestLog model.Log
	bestStart := int64(0)
	found := false

	for uid, log := range w.Logbook {
		if taken[uid] || len(log) == 0 || log[0].TripID != feedID {
			continue
		}
		start := firstObservedTime(log, w.Timestamps[uid])
		if start <= sinceTS {
			continue
		}
		if !found || start < bestStart {
			bestUID, bestLog, bestStart, found = uid, log, start, true
		}
	}

	return bestUID, bestLog, bestStart, found
}

// firstObservedTime approximates the timestamp of the earliest update that
// mentioned this trip within its window: the smallest minimum_time recorded
// across its rows, falling back to the window-timestamp only if no row
// carries a minimum_time at all.
func firstObservedTime(log model.Log, fallback int64) int64 {
	best := fallback
	set := false
	for _, a := range log {
		if a.MinimumTime == nil {
			continue
		}
		if !set || *a.MinimumTime < best {
			best = *a.MinimumTime
			set = true
		}
	}
	return best
}

// spliceTail rewrites the accumulator log's trailing EN_ROUTE_TO run against
// the continuation log found in the next window, then appends whatever
// stops in the continuation weren't already part of that tail.
func spliceTail(accLog model.Log, contLog model.Log, tStart int64) model.Log {
	tailStart := len(accLog) - 1
	for tailStart > 0 && accLog[tailStart-1].Kind == model.EnRouteTo {
		tailStart--
	}
	head := accLog[:tailStart]
	tail := accLog[tailStart:]

	contByStop := make(map[string]model.Action, len(contLog))
	for _, a := range contLog {
		contByStop[a.StopID] = a
	}

	inTail := make(map[string]bool, len(tail))
	newTail := make(model.Log, 0, len(tail)+len(contLog))
	for _, row := range tail {
		inTail[row.StopID] = true
		if cont, ok := contByStop[row.StopID]; ok {
			newTail = append(newTail, cont)
			continue
		}
		row.Kind = model.StoppedOrSkipped
		row.MaximumTime = i64(tStart)
		row.LatestInformationTime = tStart
		newTail = append(newTail, row)
	}

	for _, a := range contLog {
		if inTail[a.StopID] {
			continue
		}
		newTail = append(newTail, a)
	}

	merged := make(model.Log, 0, len(head)+len(newTail))
	merged = append(merged, head...)
	merged = append(merged, newTail...)
	return merged
}

func i64(v int64) *int64 { return &v }

// DeriveTimestamps reconstructs an approximate logbook-timestamps map from
// a logbook alone, for callers (such as the CLI's merge subcommand) that
// only have a previously-serialised logbook on disk and not the Builder's
// original Timestamps output. It takes, per trip, the largest
// latest_information_time recorded across that trip's rows — which is
// exactly what the Builder itself records, since every Step touches the
// trip's still-open row(s) with the update's timestamp.
func DeriveTimestamps(lb model.Logbook) model.Timestamps {
	ts := make(model.Timestamps, len(lb))
	for uid, log := range lb {
		var max int64
		for _, a := range log {
			if a.LatestInformationTime > max {
				max = a.LatestInformationTime
			}
		}
		ts[uid] = max
	}
	return ts
}
