package ops

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/riverrun-transit/gtfs-tripify/model"
)

var stopTimesHeader = []string{
	"trip_id", "arrival_time", "departure_time", "stop_id", "stop_sequence",
}

// ToGTFSStopTimes writes lb as a GTFS static stop_times.txt. Rows with a
// null arrival/departure bound, or still EN_ROUTE_TO, are omitted since
// they describe no confirmed stop event.
func ToGTFSStopTimes(w io.Writer, lb model.Logbook) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stopTimesHeader); err != nil {
		return err
	}

	for _, uid := range sortedUIDs(lb) {
		seq := 0
		for _, a := range lb[uid] {
			if a.Kind == model.EnRouteTo {
				continue
			}
			if a.MinimumTime == nil || a.MaximumTime == nil {
				continue
			}
			rec := []string{
				string(uid),
				strconv.FormatInt(*a.MinimumTime, 10),
				strconv.FormatInt(*a.MaximumTime, 10),
				a.StopID,
				strconv.Itoa(seq),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
			seq++
		}
	}

	cw.Flush()
	return cw.Error()
}
