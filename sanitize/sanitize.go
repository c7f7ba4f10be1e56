package sanitize

import (
	"github.com/riverrun-transit/gtfs-tripify/model"
)

// Sanitize filters a sequence of already-decoded updates into a sequence of
// well-formed updates, applying its rules in order: drop updates with a
// null, duplicate, or non-monotonic timestamp, then drop inadmissible
// messages within each surviving update. It returns the surviving updates
// plus every model.ParseError describing a dropped or repaired item, in the
// order encountered.
func Sanitize(updates []model.Update) ([]model.Update, []model.ParseError) {
	var errs []model.ParseError
	var kept []model.Update

	for i, u := range updates {
		// Rule: feed_update_has_null_timestamp.
		if u.Timestamp <= 0 {
			errs = append(errs, model.NewParseError(model.ErrNullTimestamp).
				With("update_index", i))
			continue
		}

		// Rule: feed_updates_with_duplicate_timestamps — keep the first.
		if len(kept) > 0 && kept[len(kept)-1].Timestamp == u.Timestamp {
			errs = append(errs, model.NewParseError(model.ErrDuplicateTimestamps).
				With("update_index", i).
				With("timestamp", u.Timestamp))
			continue
		}

		// Rule: feed_update_goes_backwards_in_time.
		if len(kept) > 0 && u.Timestamp < kept[len(kept)-1].Timestamp {
			errs = append(errs, model.NewParseError(model.ErrGoesBackwardsInTime).
				With("update_index", i).
				With("timestamp", u.Timestamp).
				With("previous_timestamp", kept[len(kept)-1].Timestamp))
			continue
		}

		filtered, msgErrs := sanitizeMessages(u)
		errs = append(errs, msgErrs...)
		kept = append(kept, model.Update{Timestamp: u.Timestamp, Messages: filtered})
	}

	return kept, errs
}

// sanitizeMessages applies the message-level rules (5) to one update,
// returning the surviving messages (only admissible trips: paired,
// non-empty trip id, >=1 remaining stop) and any resulting ParseErrors.
func sanitizeMessages(u model.Update) ([]model.Message, []model.ParseError) {
	var errs []model.ParseError

	// message_with_null_trip_id.
	nonNull := make([]model.Message, 0, len(u.Messages))
	for _, m := range u.Messages {
		if m.TripID == "" {
			errs = append(errs, model.NewParseError(model.ErrNullTripID).
				With("timestamp", u.Timestamp))
			continue
		}
		nonNull = append(nonNull, m)
	}

	indexed, pairErrs := IndexTrips(nonNull, u.Timestamp)
	errs = append(errs, pairErrs...)

	out := make([]model.Message, 0, len(indexed)*2)
	for _, t := range indexed {
		tu := t.TripUpdate
		out = append(out,
			model.Message{TripID: t.TripID, Kind: model.TripUpdateKind, TripUpdate: &tu},
		)
		vu := t.VehicleUpdate
		out = append(out,
			model.Message{TripID: t.TripID, Kind: model.VehicleUpdateKind, VehicleUpdate: &vu},
		)
	}
	return out, errs
}
