package model

// ParseErrorKind enumerates the non-fatal parse error taxonomy. Every
// sanitation repair is a deletion; the kind records why something was
// dropped.
type ParseErrorKind string

const (
	ErrProtobufException       ParseErrorKind = "parsing_into_protobuf_raised_exception"
	ErrProtobufRuntimeWarning  ParseErrorKind = "parsing_into_protobuf_raised_runtime_warning"
	ErrNullTimestamp           ParseErrorKind = "feed_update_has_null_timestamp"
	ErrDuplicateTimestamps     ParseErrorKind = "feed_updates_with_duplicate_timestamps"
	ErrGoesBackwardsInTime     ParseErrorKind = "feed_update_goes_backwards_in_time"
	ErrNullTripID              ParseErrorKind = "message_with_null_trip_id"
	ErrNoStopsRemaining        ParseErrorKind = "trip_has_trip_update_with_no_stops_remaining"
	ErrTripUpdateNoVehicle     ParseErrorKind = "trip_id_with_trip_update_but_no_vehicle_update"
	ErrVehicleUpdateNoTripInfo ParseErrorKind = "trip_id_with_vehicle_update_but_no_trip_update"
)

// ParseError is a tagged record describing one elision made while
// sanitising a feed update stream.
type ParseError struct {
	Kind    ParseErrorKind
	Details map[string]any
}

// NewParseError builds a ParseError with an allocated Details map, ready to
// be populated with debugging context (update index, timestamp, trip ids).
func NewParseError(kind ParseErrorKind) ParseError {
	return ParseError{Kind: kind, Details: map[string]any{}}
}

func (e ParseError) With(key string, value any) ParseError {
	e.Details[key] = value
	return e
}
