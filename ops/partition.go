package ops

import "github.com/riverrun-transit/gtfs-tripify/model"

// isPartial reports whether a log is a partial trip: its first row's
// minimum_time equals streamStart (the log was already underway when
// tracking began) or its last row is still EN_ROUTE_TO (the trip had not
// yet concluded when tracking ended).
func isPartial(log model.Log, streamStart int64) bool {
	if len(log) == 0 {
		return true
	}
	first := log[0]
	if first.MinimumTime != nil && *first.MinimumTime == streamStart {
		return true
	}
	return log[len(log)-1].Kind == model.EnRouteTo
}

// DiscardPartialLogs removes every log that began before streamStart was
// first observed or that never concluded.
func DiscardPartialLogs(lb model.Logbook, streamStart int64) model.Logbook {
	out := make(model.Logbook, len(lb))
	for uid, log := range lb {
		if isPartial(log, streamStart) {
			continue
		}
		out[uid] = log
	}
	return out
}

// PartitionOnIncomplete splits a logbook into (complete, incomplete) by the
// same criterion as DiscardPartialLogs.
func PartitionOnIncomplete(lb model.Logbook, streamStart int64) (complete model.Logbook, incomplete model.Logbook) {
	complete = make(model.Logbook, len(lb))
	incomplete = make(model.Logbook)
	for uid, log := range lb {
		if isPartial(log, streamStart) {
			incomplete[uid] = log
			continue
		}
		complete[uid] = log
	}
	return complete, incomplete
}

// PartitionOnRoute groups logs by their majority route id across the log's
// rows, breaking ties by first appearance.
func PartitionOnRoute(lb model.Logbook) map[string]model.Logbook {
	out := map[string]model.Logbook{}
	for uid, log := range lb {
		route := majorityRoute(log)
		if _, ok := out[route]; !ok {
			out[route] = model.Logbook{}
		}
		out[route][uid] = log
	}
	return out
}
