package merge

import (
	"testing"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

func i64p(v int64) *int64 { return &v }

func findRow(t *testing.T, log model.Log, stopID string) model.Action {
	t.Helper()
	for _, a := range log {
		if a.StopID == stopID {
			return a
		}
	}
	t.Fatalf("stop %q not found", stopID)
	return model.Action{}
}

// Scenario 6: merge across window.
func TestLogbooks_MergeAcrossWindow(t *testing.T) {
	const uid1 model.UniqueTripID = "uid-1"
	l1 := model.Log{
		{TripID: "X", RouteID: "R1", Kind: model.EnRouteTo, StopID: "A", MinimumTime: i64p(200), LatestInformationTime: 200},
		{TripID: "X", RouteID: "R1", Kind: model.EnRouteTo, StopID: "B", MinimumTime: i64p(200), LatestInformationTime: 200},
		{TripID: "X", RouteID: "R1", Kind: model.EnRouteTo, StopID: "C", MinimumTime: i64p(200), LatestInformationTime: 200},
	}
	w1 := Window{
		Logbook:    model.Logbook{uid1: l1},
		Timestamps: model.Timestamps{uid1: 200},
	}

	const uid2 model.UniqueTripID = "uid-2"
	l2 := model.Log{
		{TripID: "X", RouteID: "R1", Kind: model.StoppedAtKind, StopID: "B", MinimumTime: i64p(300), LatestInformationTime: 300},
		{TripID: "X", RouteID: "R1", Kind: model.EnRouteTo, StopID: "C", MinimumTime: i64p(300), LatestInformationTime: 300},
	}
	w2 := Window{
		Logbook:    model.Logbook{uid2: l2},
		Timestamps: model.Timestamps{uid2: 300},
	}

	lb, _, err := Logbooks([]Window{w1, w2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lb) != 1 {
		t.Fatalf("expected exactly one surviving unique_trip_id, got %d", len(lb))
	}

	var merged model.Log
	for _, log := range lb {
		merged = log
	}

	a := findRow(t, merged, "A")
	if a.Kind != model.StoppedOrSkipped || *a.MinimumTime != 200 || a.MaximumTime == nil || *a.MaximumTime != 300 {
		t.Fatalf("unexpected row A: %+v", a)
	}
	b := findRow(t, merged, "B")
	if b.Kind != model.StoppedAtKind || *b.MinimumTime != 300 || b.MaximumTime != nil {
		t.Fatalf("unexpected row B: %+v", b)
	}
	c := findRow(t, merged, "C")
	if c.Kind != model.EnRouteTo || *c.MinimumTime != 300 || c.MaximumTime != nil {
		t.Fatalf("unexpected row C: %+v", c)
	}
}

func TestLogbooks_RejectsOverlappingWindows(t *testing.T) {
	const uid1 model.UniqueTripID = "uid-1"
	w1 := Window{
		Logbook: model.Logbook{uid1: model.Log{
			{TripID: "X", StopID: "A", MinimumTime: i64p(100), MaximumTime: i64p(250), LatestInformationTime: 250},
		}},
		Timestamps: model.Timestamps{uid1: 250},
	}
	const uid2 model.UniqueTripID = "uid-2"
	w2 := Window{
		Logbook: model.Logbook{uid2: model.Log{
			{TripID: "Y", StopID: "Z", MinimumTime: i64p(200), LatestInformationTime: 300},
		}},
		Timestamps: model.Timestamps{uid2: 300},
	}

	_, _, err := Logbooks([]Window{w1, w2})
	if err == nil {
		t.Fatalf("expected an error for overlapping window ranges, got nil")
	}
}

func TestLogbooks_UnmatchedTripsPassThrough(t *testing.T) {
	const uid1 model.UniqueTripID = "uid-1"
	w1 := Window{
		Logbook: model.Logbook{uid1: model.Log{
			{TripID: "X", Kind: model.StoppedOrSkipped, StopID: "A", MinimumTime: i64p(100), MaximumTime: i64p(150), LatestInformationTime: 150},
		}},
		Timestamps: model.Timestamps{uid1: 150},
	}
	const uid2 model.UniqueTripID = "uid-2"
	w2 := Window{
		Logbook: model.Logbook{uid2: model.Log{
			{TripID: "Y", Kind: model.EnRouteTo, StopID: "Z", MinimumTime: i64p(300), LatestInformationTime: 300},
		}},
		Timestamps: model.Timestamps{uid2: 300},
	}

	lb, _, err := Logbooks([]Window{w1, w2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lb) != 2 {
		t.Fatalf("expected both unmatched trips preserved, got %d", len(lb))
	}
}
