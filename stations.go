package seoulmetro

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
)

type StationLocation struct {
	Station   string
	Line      string
	Latitude  float64
	Longitude float64
	Color     string
}

// StationLine is the merge key.
type StationLine struct {
	Station string
	Line    string
}

// LoadStations reads a coordinate file, averages the coordinates of each
// (station, line) pair and attaches the line's color. Pairs whose line has
// no color are dropped and counted in report, which may be nil.
func LoadStations(path string, colors map[string]string, opts *LoadOpts, report *DropReport) ([]StationLocation, error) {
	raw, err := loadStationFile(path, opts.encoding())
	if err != nil {
		return nil, err
	}
	return resolveColors(raw, colors, report), nil
}

// rawStation is one coordinate observation, before grouping.
type rawStation struct {
	Station   string
	Line      string
	Latitude  float64
	Longitude float64
}

func loadStationFile(path string, encoding Encoding) ([]StationLocation, error) {
	if path == "" {
		panic("Missing station path")
	}

	rows, err := readCSV(path, encoding)
	if err != nil {
		return nil, err
	}
	indices, err := stationSchema.bind(path, rows[0])
	if err != nil {
		return nil, err
	}

	observations := make([]rawStation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		fields, err := stationSchema.project(path, rowNum, indices, row)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, &SchemaError{File: path, Row: rowNum, Reason: fmt.Sprintf("invalid Latitude %q", fields[2])}
		}
		lng, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, &SchemaError{File: path, Row: rowNum, Reason: fmt.Sprintf("invalid Longitude %q", fields[3])}
		}
		observations = append(observations, rawStation{Station: fields[0], Line: fields[1], Latitude: lat, Longitude: lng})
	}

	grouped := groupStations(observations)
	slog.Info(fmt.Sprintf("Loaded %d station locations from %d rows in %s", len(grouped), len(observations), path))
	return grouped, nil
}

// groupStations averages coordinates per (station, line). The output is
// ordered by station, then line. Color is left empty.
func groupStations(observations []rawStation) []StationLocation {
	type sum struct {
		lat, lng float64
		n        int
	}
	sums := make(map[StationLine]*sum)
	var keys []StationLine
	for _, o := range observations {
		key := StationLine{Station: o.Station, Line: o.Line}
		s, ok := sums[key]
		if !ok {
			s = &sum{}
			sums[key] = s
			keys = append(keys, key)
		}
		s.lat += o.Latitude
		s.lng += o.Longitude
		s.n++
	}

	slices.SortFunc(keys, func(a, b StationLine) int {
		if c := cmp.Compare(a.Station, b.Station); c != 0 {
			return c
		}
		return cmp.Compare(a.Line, b.Line)
	})

	out := make([]StationLocation, 0, len(keys))
	for _, key := range keys {
		s := sums[key]
		out = append(out, StationLocation{
			Station:   key.Station,
			Line:      key.Line,
			Latitude:  s.lat / float64(s.n),
			Longitude: s.lng / float64(s.n),
		})
	}
	return out
}

// resolveColors returns copies of the locations whose line is in colors.
func resolveColors(locations []StationLocation, colors map[string]string, report *DropReport) []StationLocation {
	out := make([]StationLocation, 0, len(locations))
	for _, loc := range locations {
		color, ok := colors[loc.Line]
		if !ok || color == "" {
			report.dropUnresolvedColor(loc)
			continue
		}
		loc.Color = color
		out = append(out, loc)
	}
	if dropped := len(locations) - len(out); dropped > 0 {
		slog.Info(fmt.Sprintf("Dropped %d station location(s) with no line color", dropped))
	}
	return out
}
