package seoulmetro

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestMergeEndToEndExample(t *testing.T) {
	dir := testTempdir(t)
	writeTestFile(t, dir, "raw.csv", "Date,Line,Station,EntriesN,ExitsN,Registered\n"+
		"20200401,경원선,이촌(한강),100,50,x\n")
	writeTestFile(t, dir, "map.csv", "Station,Line,Latitude,Longitude\n"+
		"이촌,경의/중앙선,37.5,127.0\n")

	records, err := LoadRidership(dir+"/", []string{"raw.csv"}, nil)
	require.NoError(t, err)
	records = Normalize(records, DefaultConfig().Rules)

	stations, err := LoadStations(dir+"/map.csv", map[string]string{"경의/중앙선": "#00A5DE"}, nil, nil)
	require.NoError(t, err)

	rows := Merge(records, stations, nil)
	assert.Equal(t, []MergedRow{{
		Date:      "2020-04-01",
		Line:      "경의/중앙선",
		Station:   "이촌",
		Entries:   100,
		Exits:     50,
		Latitude:  37.5,
		Longitude: 127.0,
		Color:     "#00A5DE",
	}}, rows)
}

func TestMergeDropsUnmapped(t *testing.T) {
	records := []RidershipRecord{
		{Date: "2020-04-01", Line: "2호선", Station: "시청", Entries: 1, Exits: 2},
		{Date: "2020-04-01", Line: "2호선", Station: "없는역", Entries: 3, Exits: 4},
		{Date: "2020-04-02", Line: "2호선", Station: "없는역", Entries: 5, Exits: 6},
		{Date: "2020-04-02", Line: "1호선", Station: "시청", Entries: 7, Exits: 8},
	}
	stations := []StationLocation{{Station: "시청", Line: "2호선", Latitude: 37.5, Longitude: 127, Color: "#009D3E"}}

	report := NewDropReport()
	rows := Merge(records, stations, report)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Entries)
	assert.LessOrEqual(t, len(rows), len(records))

	assert.Equal(t, 3, report.UnmappedCount())
	assert.Equal(t, 2, report.Unmapped[StationLine{Station: "없는역", Line: "2호선"}])
	assert.Equal(t, 1, report.Unmapped[StationLine{Station: "시청", Line: "1호선"}])
}

func TestMergeAllMappedKeepsCardinality(t *testing.T) {
	records := []RidershipRecord{
		{Date: "2020-04-01", Line: "2호선", Station: "시청"},
		{Date: "2020-04-02", Line: "2호선", Station: "시청"},
		{Date: "2020-04-01", Line: "1호선", Station: "회기"},
	}
	stations := []StationLocation{
		{Station: "시청", Line: "2호선", Color: "#009D3E"},
		{Station: "회기", Line: "1호선", Color: "#0052A4"},
	}
	rows := Merge(records, stations, nil)
	assert.Len(t, rows, len(records))
	assert.Equal(t, "회기", rows[2].Station)
}

func TestMergeFansOutDuplicateKeys(t *testing.T) {
	records := []RidershipRecord{{Date: "2020-04-01", Line: "2호선", Station: "시청", Entries: 1}}
	stations := []StationLocation{
		{Station: "시청", Line: "2호선", Latitude: 1, Color: "#009D3E"},
		{Station: "시청", Line: "2호선", Latitude: 2, Color: "#009D3E"},
	}
	rows := Merge(records, stations, nil)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Latitude)
	assert.Equal(t, 2.0, rows[1].Latitude)
}

func TestMergeEmptyIntersection(t *testing.T) {
	records, err := LoadRidership("./sample_data/SeoulMetro_", []string{"202004.csv"}, nil)
	require.NoError(t, err)

	stations, err := LoadStations("./sample_data/SeoulMetro_Stations.csv", map[string]string{"우이신설선": "#B0CE18"}, nil, nil)
	require.NoError(t, err)
	require.Empty(t, stations)

	rows := Merge(Normalize(records, DefaultConfig().Rules), stations, nil)
	assert.Empty(t, rows)
}
