// Package fetch is a thin HTTP convenience helper for pulling GTFS-Realtime
// snapshots from a live feed URL. It exists for the CLI only; library users
// that already have raw bytes never need it.
package fetch
