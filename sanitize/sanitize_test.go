package sanitize

import (
	"testing"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

func tu(tripID string, stops ...string) *model.TripUpdate {
	stu := make([]model.StopTimeUpdate, len(stops))
	for i, s := range stops {
		stu[i] = model.StopTimeUpdate{StopID: s}
	}
	return &model.TripUpdate{TripID: tripID, RouteID: "R1", Stops: stu}
}

func vu(tripID, stopID string) *model.VehicleUpdate {
	return &model.VehicleUpdate{TripID: tripID, StopID: stopID, Status: model.InTransitTo}
}

func TestSanitize_NullTimestampDropped(t *testing.T) {
	kept, errs := Sanitize([]model.Update{{Timestamp: 0}})
	if len(kept) != 0 {
		t.Fatalf("expected update dropped, got %d", len(kept))
	}
	if len(errs) != 1 || errs[0].Kind != model.ErrNullTimestamp {
		t.Fatalf("expected ErrNullTimestamp, got %+v", errs)
	}
}

func TestSanitize_DuplicateTimestampsKeepsFirst(t *testing.T) {
	u1 := model.Update{Timestamp: 100, Messages: []model.Message{
		{TripID: "X", Kind: model.TripUpdateKind, TripUpdate: tu("X", "A")},
		{TripID: "X", Kind: model.VehicleUpdateKind, VehicleUpdate: vu("X", "A")},
	}}
	u2 := model.Update{Timestamp: 100, Messages: []model.Message{
		{TripID: "Y", Kind: model.TripUpdateKind, TripUpdate: tu("Y", "B")},
		{TripID: "Y", Kind: model.VehicleUpdateKind, VehicleUpdate: vu("Y", "B")},
	}}
	kept, errs := Sanitize([]model.Update{u1, u2})

	if len(kept) != 1 {
		t.Fatalf("expected 1 surviving update, got %d", len(kept))
	}
	if kept[0].Messages[0].TripID != "X" {
		t.Fatalf("expected first update kept, got %+v", kept[0])
	}
	if len(errs) != 1 || errs[0].Kind != model.ErrDuplicateTimestamps {
		t.Fatalf("expected ErrDuplicateTimestamps, got %+v", errs)
	}
}

func TestSanitize_BackwardsTimeDropped(t *testing.T) {
	updates := []model.Update{
		{Timestamp: 100},
		{Timestamp: 200},
		{Timestamp: 150},
	}
	kept, errs := Sanitize(updates)
	if len(kept) != 2 {
		t.Fatalf("expected 2 surviving updates, got %d", len(kept))
	}
	var found bool
	for _, e := range errs {
		if e.Kind == model.ErrGoesBackwardsInTime {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrGoesBackwardsInTime, got %+v", errs)
	}
}

func TestSanitize_NullTripIDDropped(t *testing.T) {
	u := model.Update{Timestamp: 100, Messages: []model.Message{
		{TripID: "", Kind: model.TripUpdateKind, TripUpdate: tu("", "A")},
	}}
	kept, errs := Sanitize([]model.Update{u})
	if len(kept[0].Messages) != 0 {
		t.Fatalf("expected message dropped, got %+v", kept[0].Messages)
	}
	if len(errs) != 1 || errs[0].Kind != model.ErrNullTripID {
		t.Fatalf("expected ErrNullTripID, got %+v", errs)
	}
}

func TestSanitize_NoStopsRemainingDropsBothMessages(t *testing.T) {
	u := model.Update{Timestamp: 100, Messages: []model.Message{
		{TripID: "X", Kind: model.TripUpdateKind, TripUpdate: tu("X")},
		{TripID: "X", Kind: model.VehicleUpdateKind, VehicleUpdate: vu("X", "A")},
	}}
	kept, errs := Sanitize([]model.Update{u})
	if len(kept[0].Messages) != 0 {
		t.Fatalf("expected both messages dropped, got %+v", kept[0].Messages)
	}
	if len(errs) != 1 || errs[0].Kind != model.ErrNoStopsRemaining {
		t.Fatalf("expected ErrNoStopsRemaining, got %+v", errs)
	}
}

func TestSanitize_OrphanTripUpdateDropped(t *testing.T) {
	u := model.Update{Timestamp: 100, Messages: []model.Message{
		{TripID: "X", Kind: model.TripUpdateKind, TripUpdate: tu("X", "A")},
	}}
	kept, errs := Sanitize([]model.Update{u})
	if len(kept[0].Messages) != 0 {
		t.Fatalf("expected orphan message dropped, got %+v", kept[0].Messages)
	}
	if len(errs) != 1 || errs[0].Kind != model.ErrTripUpdateNoVehicle {
		t.Fatalf("expected ErrTripUpdateNoVehicle, got %+v", errs)
	}
}
