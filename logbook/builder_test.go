package logbook

import (
	"testing"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

func upd(ts int64, tripID, routeID string, status model.VehicleStatus, stops ...string) model.Update {
	stu := make([]model.StopTimeUpdate, len(stops))
	for i, s := range stops {
		stu[i] = model.StopTimeUpdate{StopID: s}
	}
	return model.Update{
		Timestamp: ts,
		Messages: []model.Message{
			{TripID: tripID, Kind: model.TripUpdateKind, TripUpdate: &model.TripUpdate{
				TripID: tripID, RouteID: routeID, Stops: stu,
			}},
			{TripID: tripID, Kind: model.VehicleUpdateKind, VehicleUpdate: &model.VehicleUpdate{
				TripID: tripID, StopID: stops[0], Status: status, Timestamp: ts,
			}},
		},
	}
}

func findRow(t *testing.T, log model.Log, stopID string) model.Action {
	t.Helper()
	for _, a := range log {
		if a.StopID == stopID {
			return a
		}
	}
	t.Fatalf("stop %q not found in log", stopID)
	return model.Action{}
}

// Scenario 1: single trip, two updates, mid-trip.
func TestBuilder_SingleTripMidTripAdvance(t *testing.T) {
	lb, _ := Build([]model.Update{
		upd(100, "X", "R1", model.InTransitTo, "A", "B", "C"),
		upd(200, "X", "R1", model.InTransitTo, "B", "C"),
	})

	if len(lb) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(lb))
	}
	var log model.Log
	for _, l := range lb {
		log = l
	}

	a := findRow(t, log, "A")
	if a.Kind != model.StoppedOrSkipped || a.MinimumTime == nil || *a.MinimumTime != 100 || a.MaximumTime == nil || *a.MaximumTime != 200 {
		t.Fatalf("unexpected row A: %+v", a)
	}
	b := findRow(t, log, "B")
	if b.Kind != model.EnRouteTo || b.MinimumTime == nil || *b.MinimumTime != 200 || b.MaximumTime != nil {
		t.Fatalf("unexpected row B: %+v", b)
	}
	c := findRow(t, log, "C")
	if c.Kind != model.EnRouteTo || c.MinimumTime == nil || *c.MinimumTime != 200 || c.MaximumTime != nil {
		t.Fatalf("unexpected row C: %+v", c)
	}
	for _, row := range log {
		if row.LatestInformationTime != 200 {
			t.Fatalf("expected latest_information_time=200 for all rows, got %+v", row)
		}
	}
}

// Scenario 2: trip termination.
func TestBuilder_Termination(t *testing.T) {
	b := New()
	b.Step(upd(100, "X", "R1", model.InTransitTo, "A", "B"))
	b.Step(upd(200, "Y", "R2", model.InTransitTo, "Z"))
	lb, _ := b.Finish()

	var xLog model.Log
	for uid, log := range lb {
		if log[0].TripID == "X" {
			xLog = log
			_ = uid
		}
	}
	if xLog == nil {
		t.Fatalf("trip X not found in finished logbook")
	}
	for _, row := range xLog {
		if row.Kind != model.StoppedOrSkipped || row.MaximumTime == nil || *row.MaximumTime != 200 {
			t.Fatalf("expected terminated row to be STOPPED_OR_SKIPPED max=200, got %+v", row)
		}
	}
}

// Scenario 3: id recycling produces two distinct logs.
func TestBuilder_IDRecycling(t *testing.T) {
	b := New()
	b.Step(upd(100, "X", "R1", model.InTransitTo, "A", "B"))
	b.Step(upd(200, "Y", "R2", model.InTransitTo, "Z")) // X absent -> terminates
	b.Step(upd(300, "X", "R1", model.InTransitTo, "P", "Q"))
	lb, ts := b.Finish()

	var logs []model.Log
	for _, log := range lb {
		if log[0].TripID == "X" {
			logs = append(logs, log)
		}
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 distinct logs for recycled feed id X, got %d", len(logs))
	}
	if len(lb) != 3 { // X(first), Y, X(second)
		t.Fatalf("expected 3 unique trip ids total, got %d", len(lb))
	}
	for uid := range lb {
		if _, ok := ts[uid]; !ok {
			t.Fatalf("timestamps missing entry for %v", uid)
		}
	}
}

func TestBuilder_StoppedAtThenDeparture(t *testing.T) {
	lb, _ := Build([]model.Update{
		upd(100, "X", "R1", model.StoppedAt, "A", "B"),
		upd(200, "X", "R1", model.InTransitTo, "B"),
	})

	var log model.Log
	for _, l := range lb {
		log = l
	}
	a := findRow(t, log, "A")
	if a.Kind != model.StoppedAtKind || a.MaximumTime == nil || *a.MaximumTime != 200 {
		t.Fatalf("unexpected row A: %+v", a)
	}
	b := findRow(t, log, "B")
	if b.Kind != model.EnRouteTo {
		t.Fatalf("unexpected row B: %+v", b)
	}
}

// A stop that fell off the suffix (and was finalised) and is later
// re-announced by the provider stays closed; only its
// latest_information_time moves.
func TestBuilder_ReannouncedStopStaysClosed(t *testing.T) {
	lb, _ := Build([]model.Update{
		upd(100, "X", "R1", model.InTransitTo, "A", "B"),
		upd(200, "X", "R1", model.InTransitTo, "B"),      // A passed -> finalised
		upd(300, "X", "R1", model.InTransitTo, "B", "A"), // A re-announced
	})

	var log model.Log
	for _, l := range lb {
		log = l
	}
	a := findRow(t, log, "A")
	if a.Kind != model.StoppedOrSkipped {
		t.Fatalf("expected A to stay STOPPED_OR_SKIPPED, got %+v", a)
	}
	if a.MinimumTime == nil || *a.MinimumTime != 100 || a.MaximumTime == nil || *a.MaximumTime != 200 {
		t.Fatalf("expected A's bounds untouched by re-announcement, got %+v", a)
	}
}

func TestBuilder_ActionNeverReverts(t *testing.T) {
	lb, _ := Build([]model.Update{
		upd(100, "X", "R1", model.InTransitTo, "A", "B"),
		upd(200, "X", "R1", model.InTransitTo, "B"),
		upd(300, "Y", "R2", model.InTransitTo, "Z"), // X absent -> terminates
	})
	var log model.Log
	for _, l := range lb {
		if l[0].TripID == "X" {
			log = l
		}
	}
	for _, row := range log {
		if row.Kind == model.EnRouteTo {
			t.Fatalf("expected no rows left EN_ROUTE_TO once trip terminated, got %+v", row)
		}
	}
}
