package seoulmetro

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

var ErrInvalidRange = errors.New("invalid month range")

// DefaultFrameDelay is the pause between two rendered frames.
const DefaultFrameDelay = 200 * time.Millisecond

// Months lists the distinct YYYY-MM values in rows, ascending.
func Months(rows []MergedRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		m := row.Date.Month()
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return out
}

// SelectMonths keeps rows whose month is within [from, to].
func SelectMonths(rows []MergedRow, from, to string) ([]MergedRow, error) {
	if !validMonth(from) || !validMonth(to) {
		return nil, fmt.Errorf("%w: want YYYY-MM, got %q to %q", ErrInvalidRange, from, to)
	}
	if from > to {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from, to)
	}
	var out []MergedRow
	for _, row := range rows {
		if m := row.Date.Month(); m >= from && m <= to {
			out = append(out, row)
		}
	}
	return out, nil
}

func validMonth(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

type SizeScope int

const (
	// SizeScopeFrame normalizes sizes against the busiest point of each frame.
	SizeScopeFrame SizeScope = iota
	// SizeScopeSelection normalizes against the busiest point of all frames.
	SizeScopeSelection
)

func ParseSizeScope(s string) (SizeScope, error) {
	switch s {
	case "", "frame":
		return SizeScopeFrame, nil
	case "selection":
		return SizeScopeSelection, nil
	default:
		return 0, fmt.Errorf("unknown size scope %q", s)
	}
}

type FramePoint struct {
	MergedRow
	Fill RGB
	Size float64
}

type Frame struct {
	Date      Date
	Latitude  float64
	Longitude float64
	Points    []FramePoint
}

type FrameOpts struct {
	SizeScope SizeScope
}

// BuildFrames groups rows into one frame per date, ascending.
func BuildFrames(rows []MergedRow, opts *FrameOpts) []Frame {
	if opts == nil {
		opts = &FrameOpts{}
	}

	byDate := make(map[Date][]MergedRow)
	var dates []Date
	selectionMax := 0
	for _, row := range rows {
		if _, ok := byDate[row.Date]; !ok {
			dates = append(dates, row.Date)
		}
		byDate[row.Date] = append(byDate[row.Date], row)
		selectionMax = max(selectionMax, row.Users())
	}
	slices.Sort(dates)

	frames := make([]Frame, 0, len(dates))
	for _, date := range dates {
		dateRows := byDate[date]

		scale := selectionMax
		if opts.SizeScope == SizeScopeFrame {
			scale = 0
			for _, row := range dateRows {
				scale = max(scale, row.Users())
			}
		}

		frame := Frame{Date: date, Points: make([]FramePoint, 0, len(dateRows))}
		for _, row := range dateRows {
			point := FramePoint{MergedRow: row, Fill: ParseHexColor(row.Color)}
			if scale > 0 {
				point.Size = float64(row.Users()) / float64(scale)
			}
			frame.Latitude += row.Latitude
			frame.Longitude += row.Longitude
			frame.Points = append(frame.Points, point)
		}
		frame.Latitude /= float64(len(dateRows))
		frame.Longitude /= float64(len(dateRows))
		frames = append(frames, frame)
	}
	return frames
}

// Play renders frames in order, waiting delay between two frames. It stops
// at the first render error or when ctx is done.
func Play(ctx context.Context, frames []Frame, delay time.Duration, render func(Frame) error) error {
	for i, frame := range frames {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		slog.Debug(fmt.Sprintf("Rendering frame %s (%d points)", frame.Date, len(frame.Points)))
		if err := render(frame); err != nil {
			return fmt.Errorf("render %s: %w", frame.Date, err)
		}
	}
	return nil
}
