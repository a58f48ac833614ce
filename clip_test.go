package seoulmetro

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
)

func TestClipStations(t *testing.T) {
	feature, err := os.ReadFile("./sample_data/central_box.json")
	require.NoError(t, err)

	stations, err := LoadStations("./sample_data/SeoulMetro_Stations.csv", DefaultConfig().Colors, nil, nil)
	require.NoError(t, err)
	require.Len(t, stations, 4)

	report := NewDropReport()
	clipped, err := ClipStations(stations, string(feature), report)
	require.NoError(t, err)

	var names []string
	for _, s := range clipped {
		names = append(names, s.Station+"/"+s.Line)
	}
	assert.Equal(t, []string{"선릉/2호선", "선릉/수인/분당선", "시청/2호선"}, names)
	assert.Equal(t, 1, report.Clipped)
}

func TestClipStationsInvalidFeature(t *testing.T) {
	_, err := ClipStations(nil, `{"type":"Polygon"`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse clip feature")
}
