// Package logbook implements the stream-differential state machine that
// tracks every trip across a sequence of sanitised updates, assigns each
// physical trip a stable unique id despite feed trip_id recycling, and
// produces per-trip action logs with bounded arrival/departure intervals.
//
// Builder.Step consumes updates one at a time, carrying forward mutable,
// map-keyed state between successive observations rather than recomputing
// from scratch.
package logbook
