package seoulmetro

import (
	"fmt"
	"github.com/tidwall/geojson"
	"github.com/tidwall/geojson/geometry"
	"log/slog"
)

// ClipStations keeps the station locations inside clipFeature, a GeoJSON
// object. Locations outside are counted in report.
func ClipStations(stations []StationLocation, clipFeature string, report *DropReport) ([]StationLocation, error) {
	feature, err := geojson.Parse(clipFeature, &geojson.ParseOptions{RequireValid: true})
	if err != nil {
		return nil, fmt.Errorf("parse clip feature: %w", err)
	}

	slog.Info(fmt.Sprintf("Clipping %d station locations (clipFeature has %d points)",
		len(stations), feature.NumPoints()))

	out := make([]StationLocation, 0, len(stations))
	for _, loc := range stations {
		point := geojson.NewPoint(geometry.Point{X: loc.Longitude, Y: loc.Latitude})
		if feature.Contains(point) {
			out = append(out, loc)
		} else {
			report.dropClipped(loc)
		}
	}
	slog.Info(fmt.Sprintf("%d of %d station locations are inside", len(out), len(stations)))
	return out, nil
}
