package decode

import (
	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

// Decode parses one GTFS-Realtime FeedMessage out of raw protobuf bytes and
// projects it onto the fields the core reads. On decode failure it returns
// a ParseError of kind ErrProtobufException; on a decode that "succeeds"
// but leaves the feed with no header or no header timestamp — a GTFS-RT
// producer's signature of partial data loss — it returns
// ErrProtobufRuntimeWarning. Both are treated as hard failures by the
// caller: losing trips silently from the record is unsafe, so an update
// that can't be trusted is dropped rather than repaired.
func Decode(raw []byte) (*model.Update, *model.ParseError) {
	var fm gtfs.FeedMessage
	if err := proto.Unmarshal(raw, &fm); err != nil {
		pe := model.NewParseError(model.ErrProtobufException).With("error", err.Error())
		return nil, &pe
	}

	if fm.Header == nil || fm.Header.Timestamp == nil {
		pe := model.NewParseError(model.ErrProtobufRuntimeWarning).
			With("reason", "missing header timestamp")
		return nil, &pe
	}

	update := &model.Update{
		Timestamp: int64(fm.GetHeader().GetTimestamp()),
	}

	// An entity may carry a trip_update, a vehicle, or both; both messages
	// are emitted when both are present so trip pairing sees the full pair.
	for _, entity := range fm.Entity {
		if tu := entity.GetTripUpdate(); tu != nil && tu.Trip != nil {
			tripID := tu.Trip.GetTripId()
			stops := make([]model.StopTimeUpdate, 0, len(tu.StopTimeUpdate))
			for _, stu := range tu.StopTimeUpdate {
				stops = append(stops, model.StopTimeUpdate{
					StopID:    stu.GetStopId(),
					Arrival:   stopTimeEventTime(stu.GetArrival()),
					Departure: stopTimeEventTime(stu.GetDeparture()),
				})
			}
			update.Messages = append(update.Messages, model.Message{
				TripID: tripID,
				Kind:   model.TripUpdateKind,
				TripUpdate: &model.TripUpdate{
					TripID:  tripID,
					RouteID: tu.Trip.GetRouteId(),
					Stops:   stops,
				},
			})
		}
		if v := entity.GetVehicle(); v != nil && v.Trip != nil {
			tripID := v.Trip.GetTripId()
			update.Messages = append(update.Messages, model.Message{
				TripID: tripID,
				Kind:   model.VehicleUpdateKind,
				VehicleUpdate: &model.VehicleUpdate{
					TripID:    tripID,
					StopID:    v.GetStopId(),
					Status:    vehicleStatus(v.GetCurrentStatus()),
					Timestamp: int64(v.GetTimestamp()),
				},
			})
		}
	}

	return update, nil
}

func stopTimeEventTime(ev *gtfs.TripUpdate_StopTimeEvent) *int64 {
	if ev == nil || ev.Time == nil {
		return nil
	}
	t := ev.GetTime()
	return &t
}

func vehicleStatus(s gtfs.VehiclePosition_VehicleStopStatus) model.VehicleStatus {
	switch s {
	case gtfs.VehiclePosition_STOPPED_AT:
		return model.StoppedAt
	case gtfs.VehiclePosition_IN_TRANSIT_TO:
		return model.InTransitTo
	case gtfs.VehiclePosition_INCOMING_AT:
		return model.IncomingAt
	default:
		return model.InTransitTo
	}
}
