// Package decode turns raw GTFS-Realtime protobuf bytes into a model.Update.
//
// Protobuf decoding itself is delegated to the official bindings
// (github.com/MobilityData/gtfs-realtime-bindings); this package only
// normalises the decoder's failure modes into model.ParseError values and
// extracts the subset of FeedMessage fields the core reads.
package decode
