package ops

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

// csvHeader defines the column names written as the first row of any CSV
// export. The column order is stable; callers parsing this format may rely
// on it.
var csvHeader = []string{
	"trip_id", "route_id", "action", "minimum_time", "maximum_time",
	"stop_id", "latest_information_time", "unique_trip_id",
}

// ToCSV writes lb to w in the stable schema above, rows grouped by
// unique_trip_id (groups in lexical uid order, so the same logbook always
// serialises to the same bytes) and, within a group, in stop order.
func ToCSV(w io.Writer, lb model.Logbook) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, uid := range sortedUIDs(lb) {
		for _, a := range lb[uid] {
			if err := cw.Write(actionToRecord(a, uid)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func sortedUIDs(lb model.Logbook) []model.UniqueTripID {
	uids := make([]model.UniqueTripID, 0, len(lb))
	for uid := range lb {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	return uids
}

func actionToRecord(a model.Action, uid model.UniqueTripID) []string {
	return []string{
		a.TripID,
		a.RouteID,
		a.Kind.String(),
		nullableInt(a.MinimumTime),
		nullableInt(a.MaximumTime),
		a.StopID,
		strconv.FormatInt(a.LatestInformationTime, 10),
		string(uid),
	}
}

func nullableInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// FromCSV parses a logbook previously written by ToCSV. Rows are assumed
// grouped by unique_trip_id; FromCSV does not require them sorted but
// preserves each log's row order as encountered.
func FromCSV(r io.Reader) (model.Logbook, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ops: reading csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("ops: unexpected csv header %v", header)
	}

	lb := model.Logbook{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("ops: malformed csv row %v", rec)
		}

		kind, ok := model.ParseActionKind(rec[2])
		if !ok {
			return nil, fmt.Errorf("ops: unknown action kind %q", rec[2])
		}
		minT, err := parseNullableInt(rec[3])
		if err != nil {
			return nil, fmt.Errorf("ops: parsing minimum_time: %w", err)
		}
		maxT, err := parseNullableInt(rec[4])
		if err != nil {
			return nil, fmt.Errorf("ops: parsing maximum_time: %w", err)
		}
		latest, err := strconv.ParseInt(rec[6], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ops: parsing latest_information_time: %w", err)
		}

		uid := model.UniqueTripID(rec[7])
		lb[uid] = append(lb[uid], model.Action{
			TripID:                rec[0],
			RouteID:               rec[1],
			Kind:                  kind,
			MinimumTime:           minT,
			MaximumTime:           maxT,
			StopID:                rec[5],
			LatestInformationTime: latest,
		})
	}
	return lb, nil
}

func parseNullableInt(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
