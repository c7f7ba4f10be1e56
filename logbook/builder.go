package logbook

import (
	"github.com/google/uuid"

	"github.com/riverrun-transit/gtfs-tripify/model"
	"github.com/riverrun-transit/gtfs-tripify/sanitize"
)

// Builder is the stream-differential state machine that tracks every trip
// across successive updates. It is single-threaded and synchronous: callers
// must feed it updates in strictly increasing timestamp order
// (sanitize.Sanitize already enforces this before the stream reaches the
// builder).
//
// A feed trip_id that is reassigned to a different vehicle between two
// consecutive updates, without being absent from any update, is not
// detected: the stops of both vehicles end up in the same log.
type Builder struct {
	inFlight map[model.UniqueTripID]*tripState
	alias    map[string]model.UniqueTripID // feed trip_id -> unique id

	finished   model.Logbook
	timestamps model.Timestamps
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{
		inFlight:   map[model.UniqueTripID]*tripState{},
		alias:      map[string]model.UniqueTripID{},
		finished:   model.Logbook{},
		timestamps: model.Timestamps{},
	}
}

// Step processes one sanitised update, advancing every trip's state by one
// snapshot: Phase A (correspondence), Phase B (per-trip action inference),
// Phase C (termination by absence).
func (b *Builder) Step(update model.Update) {
	tk := update.Timestamp
	indexed, _ := sanitize.IndexTrips(update.Messages, tk)

	present := make(map[string]model.IndexedTrip, len(indexed))
	for _, t := range indexed {
		present[t.TripID] = t
	}

	// Phase A — correspondence.
	terminating := make([]string, 0)
	for feedID := range b.alias {
		if _, ok := present[feedID]; !ok {
			terminating = append(terminating, feedID)
		}
	}
	for feedID := range present {
		if _, ok := b.alias[feedID]; !ok {
			uid := model.UniqueTripID(uuid.New().String())
			b.alias[feedID] = uid
			b.inFlight[uid] = newTripState(feedID)
		}
	}

	// Phase B — per-trip action inference, for every trip present now.
	for feedID, trip := range present {
		uid := b.alias[feedID]
		ts := b.inFlight[uid]
		reconcile(ts, trip, tk)
		b.timestamps[uid] = tk
	}

	// Phase C — termination.
	for _, feedID := range terminating {
		uid := b.alias[feedID]
		ts := b.inFlight[uid]
		finishOpenRows(ts, tk)
		b.finished[uid] = ts.log
		b.timestamps[uid] = tk
		delete(b.inFlight, uid)
		delete(b.alias, feedID)
	}
}

// Finish moves every still in-flight trip into the logbook, leaving their
// tail actions as EN_ROUTE_TO (these are the incomplete trips). It returns
// the completed logbook and logbook-timestamps, and resets the Builder to
// an empty state.
func (b *Builder) Finish() (model.Logbook, model.Timestamps) {
	for uid, ts := range b.inFlight {
		b.finished[uid] = ts.log
	}
	lb, tss := b.finished, b.timestamps
	b.inFlight = map[model.UniqueTripID]*tripState{}
	b.alias = map[string]model.UniqueTripID{}
	b.finished = model.Logbook{}
	b.timestamps = model.Timestamps{}
	return lb, tss
}

// Build runs a Builder over a whole sanitised update stream and returns the
// finished logbook and timestamps. It is a convenience wrapper around
// New/Step/Finish for callers that don't need incremental access.
func Build(updates []model.Update) (model.Logbook, model.Timestamps) {
	b := New()
	for _, u := range updates {
		b.Step(u)
	}
	return b.Finish()
}

// reconcile applies Phase B to one continuing-or-new trip: the future
// suffix S0..Sm implied by trip.VehicleUpdate/trip.TripUpdate is diffed
// against ts.prevSuffix, finalising stops that fell off the back and
// creating or refreshing rows for stops still (or newly) ahead.
func reconcile(ts *tripState, trip model.IndexedTrip, tk int64) {
	ts.routeID = trip.TripUpdate.RouteID

	newSuffix := make([]string, len(trip.TripUpdate.Stops))
	inNewSuffix := make(map[string]bool, len(trip.TripUpdate.Stops))
	for i, s := range trip.TripUpdate.Stops {
		newSuffix[i] = s.StopID
		inNewSuffix[s.StopID] = true
	}

	// Stops that were ahead of the vehicle last update but have fallen off
	// the front of this update's suffix: the vehicle passed through them.
	for _, stopID := range ts.prevSuffix {
		if inNewSuffix[stopID] {
			continue
		}
		idx, ok := ts.rowIndex[stopID]
		if !ok {
			continue
		}
		row := &ts.log[idx]
		if !isOpen(*row) {
			continue
		}
		if row.Kind == model.StoppedAtKind {
			row.MaximumTime = i64(tk)
		} else {
			row.Kind = model.StoppedOrSkipped
			row.MaximumTime = i64(tk)
		}
		row.LatestInformationTime = tk
	}

	for i, stu := range trip.TripUpdate.Stops {
		stopID := stu.StopID
		idx, seen := ts.rowIndex[stopID]

		if !seen {
			action := model.Action{
				TripID:                ts.feedTripID,
				RouteID:               ts.routeID,
				StopID:                stopID,
				LatestInformationTime: tk,
			}
			if i == 0 && trip.VehicleUpdate.Status == model.StoppedAt {
				action.Kind = model.StoppedAtKind
				action.MinimumTime = i64(earliestArrival(stu, tk))
			} else {
				action.Kind = model.EnRouteTo
				action.MinimumTime = i64(tk)
			}
			ts.log = append(ts.log, action)
			ts.rowIndex[stopID] = len(ts.log) - 1
			continue
		}

		row := &ts.log[idx]
		row.LatestInformationTime = tk

		if i == 0 {
			switch {
			case trip.VehicleUpdate.Status == model.StoppedAt && row.Kind == model.EnRouteTo:
				row.Kind = model.StoppedAtKind
				row.MinimumTime = i64(earliestArrival(stu, tk))
				row.MaximumTime = nil
			case trip.VehicleUpdate.Status == model.StoppedAt:
				// already STOPPED_AT (keep the original arrival bound) or
				// already finalised; just refresh LatestInformationTime.
			case row.Kind == model.StoppedAtKind:
				// Status flipped back to en-route for the stop the vehicle
				// was just reported stopped at. This can't be distinguished
				// from a data glitch from the stream alone; treat it as a
				// departure observed at tk and leave the row closed rather
				// than reopening history.
				if row.MaximumTime == nil {
					row.MaximumTime = i64(tk)
				}
			case row.Kind == model.EnRouteTo:
				row.MinimumTime = i64(tk)
			}
			continue
		}

		// S1..Sm: refresh the bound only while the row is still open. A stop
		// that was finalised earlier and then reappears in the suffix (a
		// provider re-announcing a stop already passed) stays closed.
		if row.Kind == model.EnRouteTo {
			row.MinimumTime = i64(tk)
		}
	}

	ts.prevSuffix = newSuffix
}

// earliestArrival returns the earlier of the stop's own announced arrival
// time and tk, so a STOPPED_AT row's minimum_time never claims the vehicle
// arrived later than this update actually observed it.
func earliestArrival(stu model.StopTimeUpdate, tk int64) int64 {
	if stu.Arrival != nil {
		return minI64(*stu.Arrival, tk)
	}
	return tk
}

// finishOpenRows applies Phase C to a terminated trip: every action still
// open is finalised as STOPPED_OR_SKIPPED (or given a departure bound, if
// it was STOPPED_AT) at time tk, the moment its physical trip was learned
// to have ended.
func finishOpenRows(ts *tripState, tk int64) {
	for i := range ts.log {
		row := &ts.log[i]
		if !isOpen(*row) {
			continue
		}
		if row.Kind == model.StoppedAtKind {
			row.MaximumTime = i64(tk)
		} else {
			row.Kind = model.StoppedOrSkipped
			row.MaximumTime = i64(tk)
		}
		row.LatestInformationTime = tk
	}
}
