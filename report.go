package seoulmetro

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// DropReport counts rows removed by filtering stages. A nil *DropReport
// is valid and records nothing.
type DropReport struct {
	// LogLevel is used for the first drop of each key.
	LogLevel slog.Level

	// UnresolvedColor counts station locations dropped per line.
	UnresolvedColor map[string]int
	// Unmapped counts ridership rows with no station location.
	Unmapped map[StationLine]int
	// Clipped counts station locations outside the clip feature.
	Clipped int
}

func NewDropReport() *DropReport {
	return &DropReport{
		LogLevel:        slog.LevelDebug,
		UnresolvedColor: make(map[string]int),
		Unmapped:        make(map[StationLine]int),
	}
}

func (r *DropReport) log(msg string, args ...any) {
	slog.Log(context.Background(), r.LogLevel, fmt.Sprintf(msg, args...))
}

func (r *DropReport) dropUnresolvedColor(loc StationLocation) {
	if r == nil {
		return
	}
	if r.UnresolvedColor == nil {
		r.UnresolvedColor = make(map[string]int)
	}
	if r.UnresolvedColor[loc.Line] == 0 {
		r.log("No color for line %s [station: %s]", loc.Line, loc.Station)
	}
	r.UnresolvedColor[loc.Line]++
}

func (r *DropReport) dropUnmapped(rec RidershipRecord) {
	if r == nil {
		return
	}
	if r.Unmapped == nil {
		r.Unmapped = make(map[StationLine]int)
	}
	key := StationLine{Station: rec.Station, Line: rec.Line}
	if r.Unmapped[key] == 0 {
		r.log("No location for %s on %s [date: %s]", rec.Station, rec.Line, rec.Date)
	}
	r.Unmapped[key]++
}

func (r *DropReport) dropClipped(loc StationLocation) {
	if r == nil {
		return
	}
	r.log("%s on %s is outside the clip feature", loc.Station, loc.Line)
	r.Clipped++
}

func (r *DropReport) UnresolvedColorCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, n := range r.UnresolvedColor {
		total += n
	}
	return total
}

func (r *DropReport) UnmappedCount() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, n := range r.Unmapped {
		total += n
	}
	return total
}

// DropEntry is one row of a flattened report.
type DropEntry struct {
	Kind    string
	Line    string
	Station string
	Count   int
}

const (
	DropKindUnresolvedColor = "unresolved_color"
	DropKindUnmapped        = "unmapped"
	DropKindClipped         = "clipped"
)

// Entries flattens the report in a stable order.
func (r *DropReport) Entries() []DropEntry {
	if r == nil {
		return nil
	}
	var out []DropEntry
	for line, n := range r.UnresolvedColor {
		out = append(out, DropEntry{Kind: DropKindUnresolvedColor, Line: line, Count: n})
	}
	for key, n := range r.Unmapped {
		out = append(out, DropEntry{Kind: DropKindUnmapped, Line: key.Line, Station: key.Station, Count: n})
	}
	if r.Clipped > 0 {
		out = append(out, DropEntry{Kind: DropKindClipped, Count: r.Clipped})
	}
	slices.SortFunc(out, func(a, b DropEntry) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Station, b.Station)
	})
	return out
}

func (r *DropReport) String() string {
	return fmt.Sprintf("%d station location(s) without color, %d ridership row(s) without location, %d clipped",
		r.UnresolvedColorCount(), r.UnmappedCount(), r.clipped())
}

func (r *DropReport) clipped() int {
	if r == nil {
		return 0
	}
	return r.Clipped
}
