package model

// VehicleStatus mirrors the GTFS-RT VehiclePosition.VehicleStopStatus enum,
// restricted to the three values the builder cares about.
type VehicleStatus int

const (
	StoppedAt VehicleStatus = iota
	InTransitTo
	IncomingAt
)

func (s VehicleStatus) String() string {
	switch s {
	case StoppedAt:
		return "STOPPED_AT"
	case InTransitTo:
		return "IN_TRANSIT_TO"
	case IncomingAt:
		return "INCOMING_AT"
	default:
		return "UNKNOWN"
	}
}

// StopTimeUpdate is one future stop in a TripUpdate's stop_time_update list.
type StopTimeUpdate struct {
	StopID    string
	Arrival   *int64
	Departure *int64
}

// TripUpdate carries a trip's remaining stops as of the enclosing Update's
// timestamp.
type TripUpdate struct {
	TripID  string
	RouteID string
	Stops   []StopTimeUpdate
}

// VehicleUpdate carries the current or imminent stop of a trip's vehicle.
type VehicleUpdate struct {
	TripID    string
	StopID    string
	Status    VehicleStatus
	Timestamp int64
}

// MessageKind tags which variant a Message carries.
type MessageKind int

const (
	TripUpdateKind MessageKind = iota
	VehicleUpdateKind
)

// Message is one GTFS-RT entity, already narrowed to the two variants the
// core consumes: a TripUpdate or a VehicleUpdate, never both. After Trip
// Indexing (sanitize.IndexTrips) a trip's pair is represented as an
// IndexedTrip, not as two loose Messages.
type Message struct {
	TripID        string
	Kind          MessageKind
	TripUpdate    *TripUpdate
	VehicleUpdate *VehicleUpdate
}

// Update is one decoded snapshot: a timestamp and its messages, in
// first-appearance order.
type Update struct {
	Timestamp int64
	Messages  []Message
}

// IndexedTrip is an admissible trip within one update: exactly one
// TripUpdate and one VehicleUpdate sharing a trip_id, with at least one
// remaining stop. Built by sanitize.IndexTrips.
type IndexedTrip struct {
	TripID        string
	TripUpdate    TripUpdate
	VehicleUpdate VehicleUpdate
}
