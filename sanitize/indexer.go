package sanitize

import "github.com/riverrun-transit/gtfs-tripify/model"

// IndexTrips groups one update's messages by trip_id (preserving the order
// of first appearance) and narrows them to admissible trips: exactly one
// TripUpdate and one VehicleUpdate sharing a trip_id, with at least one
// remaining stop. Trips failing admissibility are dropped and reported as
// ParseErrors. A trip_id carrying more than one TripUpdate or more than one
// VehicleUpdate is not rejected: the first message of each kind is used and
// the later ones are ignored without a ParseError.
func IndexTrips(messages []model.Message, timestamp int64) ([]model.IndexedTrip, []model.ParseError) {
	type group struct {
		tripUpdate    *model.TripUpdate
		vehicleUpdate *model.VehicleUpdate
	}

	order := make([]string, 0, len(messages))
	groups := map[string]*group{}

	for _, m := range messages {
		g, ok := groups[m.TripID]
		if !ok {
			g = &group{}
			groups[m.TripID] = g
			order = append(order, m.TripID)
		}
		switch m.Kind {
		case model.TripUpdateKind:
			if g.tripUpdate == nil {
				g.tripUpdate = m.TripUpdate
			}
		case model.VehicleUpdateKind:
			if g.vehicleUpdate == nil {
				g.vehicleUpdate = m.VehicleUpdate
			}
		}
	}

	var errs []model.ParseError
	out := make([]model.IndexedTrip, 0, len(order))

	for _, tripID := range order {
		g := groups[tripID]

		if g.tripUpdate != nil && len(g.tripUpdate.Stops) == 0 {
			errs = append(errs, model.NewParseError(model.ErrNoStopsRemaining).
				With("trip_id", tripID).
				With("timestamp", timestamp))
			continue
		}

		switch {
		case g.tripUpdate != nil && g.vehicleUpdate == nil:
			errs = append(errs, model.NewParseError(model.ErrTripUpdateNoVehicle).
				With("trip_id", tripID).
				With("timestamp", timestamp))
		case g.tripUpdate == nil && g.vehicleUpdate != nil:
			errs = append(errs, model.NewParseError(model.ErrVehicleUpdateNoTripInfo).
				With("trip_id", tripID).
				With("timestamp", timestamp))
		case g.tripUpdate != nil && g.vehicleUpdate != nil:
			out = append(out, model.IndexedTrip{
				TripID:        tripID,
				TripUpdate:    *g.tripUpdate,
				VehicleUpdate: *g.vehicleUpdate,
			})
		}
	}

	return out, errs
}
