package seoulmetro

import (
	"fmt"
	"log/slog"
)

type MergedRow struct {
	Date      Date
	Line      string
	Station   string
	Entries   int
	Exits     int
	Latitude  float64
	Longitude float64
	Color     string
}

// Users is entries plus exits.
func (r MergedRow) Users() int {
	return r.Entries + r.Exits
}

// Merge inner-joins ridership to station locations on (station, line).
// Ridership with no matching location is dropped and counted in report.
// Duplicate location keys fan out in the order they appear in stations.
func Merge(records []RidershipRecord, stations []StationLocation, report *DropReport) []MergedRow {
	index := make(map[StationLine][]StationLocation, len(stations))
	for _, loc := range stations {
		key := StationLine{Station: loc.Station, Line: loc.Line}
		index[key] = append(index[key], loc)
	}

	out := make([]MergedRow, 0, len(records))
	for _, rec := range records {
		matches := index[StationLine{Station: rec.Station, Line: rec.Line}]
		if len(matches) == 0 {
			report.dropUnmapped(rec)
			continue
		}
		for _, loc := range matches {
			out = append(out, MergedRow{
				Date:      rec.Date,
				Line:      rec.Line,
				Station:   rec.Station,
				Entries:   rec.Entries,
				Exits:     rec.Exits,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
				Color:     loc.Color,
			})
		}
	}

	slog.Info(fmt.Sprintf("Merged %d of %d ridership rows with %d station locations", len(out), len(records), len(stations)))
	return out
}
