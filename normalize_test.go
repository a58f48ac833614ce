package seoulmetro

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNormalizeOverrideTakesPrecedence(t *testing.T) {
	rules := DefaultConfig().Rules
	records := []RidershipRecord{
		{Date: "2020-04-01", Line: "경원선", Station: "이촌"},
		{Date: "2020-04-01", Line: "경원선", Station: "회기"},
		{Date: "2020-04-01", Line: "중앙선", Station: "이촌"},
		{Date: "2020-04-01", Line: "분당선", Station: "선릉"},
		{Date: "2020-04-01", Line: "공항철도 1호선", Station: "서울역"},
		{Date: "2020-04-01", Line: "2호선", Station: "시청"},
	}

	got := Normalize(records, rules)
	var lines []string
	for _, rec := range got {
		lines = append(lines, rec.Line)
	}
	assert.Equal(t, []string{"경의/중앙선", "1호선", "경의/중앙선", "수인/분당선", "공항철도", "2호선"}, lines)

	// Input is untouched
	assert.Equal(t, "경원선", records[0].Line)
}

func TestNormalizeAllOverrideStations(t *testing.T) {
	rules := DefaultConfig().Rules
	for _, station := range []string{"서빙고", "옥수", "왕십리", "응봉", "이촌", "청량리", "한남"} {
		got := Normalize([]RidershipRecord{{Line: "경원선", Station: station}}, rules)
		assert.Equal(t, "경의/중앙선", got[0].Line, station)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	records, err := LoadRidership("./sample_data/SeoulMetro_", []string{"202004.csv", "202005.csv"}, nil)
	require.NoError(t, err)

	rules := DefaultConfig().Rules
	once := Normalize(records, rules)
	twice := Normalize(once, rules)
	assert.Equal(t, once, twice)
}

func TestLineRulesValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Rules.Validate())

	chained := LineRules{Aliases: []AliasRule{
		{Canonical: "A", Aliases: []string{"B"}},
		{Canonical: "B", Aliases: []string{"C"}},
	}}
	assert.ErrorIs(t, chained.Validate(), ErrInvalidRules)

	shared := LineRules{Aliases: []AliasRule{
		{Canonical: "A", Aliases: []string{"X"}},
		{Canonical: "B", Aliases: []string{"X"}},
	}}
	assert.ErrorIs(t, shared.Validate(), ErrInvalidRules)

	selfAlias := LineRules{Aliases: []AliasRule{
		{Canonical: "A", Aliases: []string{"A", "B"}},
	}}
	assert.NoError(t, selfAlias.Validate())

	badOverride := LineRules{Overrides: []StationOverride{{Stations: []string{"S"}, From: "A"}}}
	assert.ErrorIs(t, badOverride.Validate(), ErrInvalidRules)

	// 경원선 collapses into 1호선, which the override would then rewrite on
	// a second pass
	overrideOfCanonical := LineRules{
		Overrides: []StationOverride{{Stations: []string{"이촌"}, From: "1호선", To: "경의/중앙선"}},
		Aliases:   []AliasRule{{Canonical: "1호선", Aliases: []string{"경원선"}}},
	}
	records := []RidershipRecord{{Line: "경원선", Station: "이촌"}}
	once := Normalize(records, overrideOfCanonical)
	assert.NotEqual(t, once, Normalize(once, overrideOfCanonical))
	assert.ErrorIs(t, overrideOfCanonical.Validate(), ErrInvalidRules)

	overrideOfAlias := LineRules{
		Overrides: []StationOverride{{Stations: []string{"이촌"}, From: "경원선", To: "경의/중앙선"}},
		Aliases:   []AliasRule{{Canonical: "1호선", Aliases: []string{"경원선"}}},
	}
	assert.NoError(t, overrideOfAlias.Validate())
}
