package main

import (
	"fmt"
	"os"

	"github.com/riverrun-transit/gtfs-tripify/decode"
	"github.com/riverrun-transit/gtfs-tripify/model"
	"github.com/riverrun-transit/gtfs-tripify/ops"
)

// decodeAll decodes every raw snapshot, collecting a ParseError instead of
// failing the whole run for any one bad snapshot.
func decodeAll(raw [][]byte) ([]model.Update, []model.ParseError) {
	updates := make([]model.Update, 0, len(raw))
	var errs []model.ParseError
	for _, r := range raw {
		u, pErr := decode.Decode(r)
		if pErr != nil {
			errs = append(errs, *pErr)
			continue
		}
		updates = append(updates, *u)
	}
	return updates, errs
}

// writeLogbook serialises lb to path in the requested format.
func writeLogbook(path, format string, lb model.Logbook) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	switch format {
	case "csv":
		return ops.ToCSV(f, lb)
	case "gtfs":
		return ops.ToGTFSStopTimes(f, lb)
	default:
		return fmt.Errorf("unknown output format %q (want csv or gtfs)", format)
	}
}
