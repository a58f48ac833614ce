package seoulmetro

import (
	"fmt"
	"log/slog"
)

type PreprocessOpts struct {
	// BasePath is prepended to every file name, e.g. "data/SeoulMetro_".
	BasePath       string
	RidershipFiles []string
	StationFile    string

	Config *Config
	Load   LoadOpts

	// ClipFeature is an optional GeoJSON object station locations must lie in.
	ClipFeature string
	// Cache is used instead of re-reading unchanged files when set.
	Cache *Cache
	// DropLogLevel is the level drops are logged at.
	DropLogLevel slog.Level
}

type Table struct {
	Rows   []MergedRow
	Report *DropReport
}

// Preprocess loads, normalizes and merges the input files.
func Preprocess(opts *PreprocessOpts) (*Table, error) {
	if opts == nil {
		panic("Missing opts")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	report := NewDropReport()
	report.LogLevel = opts.DropLogLevel

	var ridership []RidershipRecord
	var stations []StationLocation
	var err error
	if opts.Cache != nil {
		ridership, err = opts.Cache.Ridership(opts.BasePath, opts.RidershipFiles, &opts.Load)
	} else {
		ridership, err = LoadRidership(opts.BasePath, opts.RidershipFiles, &opts.Load)
	}
	if err != nil {
		return nil, err
	}
	ridership = Normalize(ridership, cfg.Rules)

	stationPath := opts.BasePath + opts.StationFile
	if opts.Cache != nil {
		stations, err = opts.Cache.Stations(stationPath, cfg.Colors, &opts.Load, report)
	} else {
		stations, err = LoadStations(stationPath, cfg.Colors, &opts.Load, report)
	}
	if err != nil {
		return nil, err
	}

	if opts.ClipFeature != "" {
		stations, err = ClipStations(stations, opts.ClipFeature, report)
		if err != nil {
			return nil, err
		}
	}

	rows := Merge(ridership, stations, report)
	slog.Info(fmt.Sprintf("Preprocessed %d rows (dropped %s)", len(rows), report))
	return &Table{Rows: rows, Report: report}, nil
}
