package logbook

import "github.com/riverrun-transit/gtfs-tripify/model"

// tripState is the Builder's in-flight bookkeeping for one physical trip.
// log is append-only: once a row is finalised (its action becomes
// STOPPED_OR_SKIPPED, or STOPPED_AT gains a MaximumTime) its action and
// bounds never change again; only its LatestInformationTime is refreshed
// if the provider re-announces the stop.
type tripState struct {
	feedTripID string
	routeID    string
	log        []model.Action
	rowIndex   map[string]int // stop_id -> index in log, permanent once set
	prevSuffix []string       // stop ids announced in the previous update, in order
}

func newTripState(feedTripID string) *tripState {
	return &tripState{
		feedTripID: feedTripID,
		rowIndex:   map[string]int{},
	}
}

// isOpen reports whether the row is still mutable: either still EN_ROUTE_TO,
// or STOPPED_AT without a confirmed departure bound.
func isOpen(a model.Action) bool {
	if a.Kind == model.EnRouteTo {
		return true
	}
	return a.Kind == model.StoppedAtKind && a.MaximumTime == nil
}

func i64(v int64) *int64 { return &v }

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
