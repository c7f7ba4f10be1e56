// Package tripify reconstructs a ground-truth history of transit vehicle
// arrivals and departures from a time-ordered stream of GTFS-Realtime
// snapshots. Logify is the top-level operation: decode, sanitise, and feed
// the result through a logbook.Builder in one call.
package tripify

import (
	"github.com/riverrun-transit/gtfs-tripify/decode"
	"github.com/riverrun-transit/gtfs-tripify/logbook"
	"github.com/riverrun-transit/gtfs-tripify/model"
	"github.com/riverrun-transit/gtfs-tripify/sanitize"
)

// Logify takes an ordered sequence of raw GTFS-Realtime protobuf payloads,
// decodes and sanitises them, and builds the resulting logbook. It never
// returns a fatal error for malformed feed content — every such problem is
// recorded in parseErrors instead. An empty stream is not an error either;
// it simply produces an empty logbook.
func Logify(stream [][]byte) (model.Logbook, model.Timestamps, []model.ParseError, error) {
	var parseErrors []model.ParseError
	updates := make([]model.Update, 0, len(stream))
	for _, raw := range stream {
		u, pErr := decode.Decode(raw)
		if pErr != nil {
			parseErrors = append(parseErrors, *pErr)
			continue
		}
		updates = append(updates, *u)
	}

	sanitised, sanErrs := sanitize.Sanitize(updates)
	parseErrors = append(parseErrors, sanErrs...)

	lb, ts := logbook.Build(sanitised)
	return lb, ts, parseErrors, nil
}

// LogifyUpdates is Logify's entry point for callers that have already
// decoded their feed snapshots (e.g. a CLI that cached parsed updates). An
// empty stream produces an empty logbook rather than an error.
func LogifyUpdates(updates []model.Update) (model.Logbook, model.Timestamps, []model.ParseError, error) {
	sanitised, parseErrors := sanitize.Sanitize(updates)
	lb, ts := logbook.Build(sanitised)
	return lb, ts, parseErrors, nil
}
