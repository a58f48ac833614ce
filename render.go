package seoulmetro

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// RadiusScale converts a normalized size to a circle radius in meters.
const RadiusScale = 2500

type featureCollection struct {
	Type     string         `json:"type"`
	Center   [2]float64     `json:"center"`
	Date     Date           `json:"date"`
	Features []pointFeature `json:"features"`
}

type pointFeature struct {
	Type       string        `json:"type"`
	Geometry   pointGeometry `json:"geometry"`
	Properties pointProps    `json:"properties"`
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type pointProps struct {
	Line    string  `json:"line"`
	Station string  `json:"station"`
	Entries int     `json:"entries"`
	Exits   int     `json:"exits"`
	Users   int     `json:"users"`
	Size    float64 `json:"size"`
	Radius  float64 `json:"radius"`
	Color   string  `json:"color"`
	Fill    []int   `json:"fill"`
}

// FrameGeoJSON encodes a frame as a FeatureCollection of points. Center is
// the [lon, lat] mean of the frame.
func FrameGeoJSON(frame Frame) ([]byte, error) {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Center:   [2]float64{frame.Longitude, frame.Latitude},
		Date:     frame.Date,
		Features: make([]pointFeature, 0, len(frame.Points)),
	}
	for _, p := range frame.Points {
		fc.Features = append(fc.Features, pointFeature{
			Type: "Feature",
			Geometry: pointGeometry{
				Type:        "Point",
				Coordinates: [2]float64{p.Longitude, p.Latitude},
			},
			Properties: pointProps{
				Line:    p.Line,
				Station: p.Station,
				Entries: p.Entries,
				Exits:   p.Exits,
				Users:   p.Users(),
				Size:    p.Size,
				Radius:  p.Size * RadiusScale,
				Color:   p.Color,
				Fill:    p.Fill.Slice(),
			},
		})
	}
	return json.Marshal(fc)
}

// GeoJSONRenderer returns a render func for Play that writes
// <dir>/<date>.geojson for every frame.
func GeoJSONRenderer(dir string) (func(Frame) error, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return func(frame Frame) error {
		data, err := FrameGeoJSON(frame)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, string(frame.Date)+".geojson")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		slog.Info(fmt.Sprintf("Wrote %s (%d points)", path, len(frame.Points)))
		return nil
	}, nil
}

// WriteFrames writes every frame without pausing.
func WriteFrames(dir string, frames []Frame) error {
	render, err := GeoJSONRenderer(dir)
	if err != nil {
		return err
	}
	for _, frame := range frames {
		if err := render(frame); err != nil {
			return err
		}
	}
	return nil
}
