// Package ops contains pure post-processing functions over finished
// logbooks: cancellation trimming, partial-trip discard, partition by
// completeness or route, and serialisation to CSV and GTFS stop_times.txt.
package ops
