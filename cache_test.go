package seoulmetro

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"testing"
	"time"
)

func TestCacheRidership(t *testing.T) {
	dir := testTempdir(t)
	header := "d,l,s,e,x,r\n"
	path := writeTestFile(t, dir, "a.csv", header+"20200401,2호선,시청,1,1,x\n")

	cache := NewCache(10)
	records, err := cache.Ridership(dir+"/", []string{"a.csv"}, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, cache.files.Len(false))

	again, err := cache.Ridership(dir+"/", []string{"a.csv"}, nil)
	require.NoError(t, err)
	assert.Equal(t, records, again)
	assert.Equal(t, 1, cache.files.Len(false))

	// A changed file is read again
	require.NoError(t, os.WriteFile(path, []byte(header+"20200401,2호선,시청,1,1,x\n20200402,2호선,시청,2,2,x\n"), 0644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	records, err = cache.Ridership(dir+"/", []string{"a.csv"}, nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 2, cache.files.Len(false))
}

func TestCacheMatchesUncached(t *testing.T) {
	files := []string{"202004.csv", "202005.csv"}
	cache := NewCache(10)

	want, err := LoadRidership("./sample_data/SeoulMetro_", files, &LoadOpts{SortGlobally: true})
	require.NoError(t, err)
	got, err := cache.Ridership("./sample_data/SeoulMetro_", files, &LoadOpts{SortGlobally: true})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	wantStations, err := LoadStations("./sample_data/SeoulMetro_Stations.csv", DefaultConfig().Colors, nil, nil)
	require.NoError(t, err)
	gotStations, err := cache.Stations("./sample_data/SeoulMetro_Stations.csv", DefaultConfig().Colors, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, wantStations, gotStations)
}

func TestCacheResolvesColorsPerCall(t *testing.T) {
	cache := NewCache(10)

	all, err := cache.Stations("./sample_data/SeoulMetro_Stations.csv", DefaultConfig().Colors, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	only2, err := cache.Stations("./sample_data/SeoulMetro_Stations.csv", map[string]string{"2호선": "#009D3E"}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, only2, 2)
	assert.Equal(t, 1, cache.files.Len(false))
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(10)
	_, err := cache.Ridership("./sample_data/SeoulMetro_", []string{"199901.csv"}, nil)
	require.ErrorIs(t, err, ErrMissingFile)
	assert.Equal(t, 0, cache.files.Len(false))
}
