package seoulmetro

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingFile    = errors.New("missing file")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// SchemaError describes a file whose header or rows don't fit the expected
// layout. Row is the 1-based CSV record number, 1 being the header.
type SchemaError struct {
	File   string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: %s row %d: %s", ErrSchemaMismatch, e.File, e.Row, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrSchemaMismatch, e.File, e.Reason)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

type fileSchema struct {
	// Positional schemas name columns by index and require an exact width.
	// Otherwise columns are located by header name and extras are ignored.
	Positional bool
	// TrailingColumns are present in the file but carry no meaning.
	TrailingColumns int
	Columns         []columnSchema
}

type columnSchema struct {
	Name            string
	TypeDescription string
}

// NOTE: The ridership extracts carry a registration date as their last
// column, which is discarded.

var ridershipSchema = fileSchema{
	Positional:      true,
	TrailingColumns: 1,
	Columns: []columnSchema{
		{Name: "Date", TypeDescription: "Compact date (YYYYMMDD or YYYYMM)"},
		{Name: "Line", TypeDescription: "Text"},
		{Name: "Station", TypeDescription: "Text, may carry a parenthesized annotation"},
		{Name: "EntriesN", TypeDescription: "Non-negative integer"},
		{Name: "ExitsN", TypeDescription: "Non-negative integer"},
	},
}

var stationSchema = fileSchema{
	Columns: []columnSchema{
		{Name: "Station", TypeDescription: "Text"},
		{Name: "Line", TypeDescription: "Text"},
		{Name: "Latitude", TypeDescription: "Latitude"},
		{Name: "Longitude", TypeDescription: "Longitude"},
	},
}

func (s fileSchema) width() int {
	return len(s.Columns) + s.TrailingColumns
}

// bind checks a header against the schema and returns the record index of
// each schema column.
func (s fileSchema) bind(file string, header []string) ([]int, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	if s.Positional {
		if len(header) != s.width() {
			return nil, &SchemaError{File: file, Row: 1,
				Reason: fmt.Sprintf("expected %d columns, got %d", s.width(), len(header))}
		}
		indices := make([]int, len(s.Columns))
		for i := range s.Columns {
			indices[i] = i
		}
		return indices, nil
	}

	positions := make(map[string]int, len(header))
	for i, column := range header {
		if _, ok := positions[strings.TrimSpace(column)]; !ok {
			positions[strings.TrimSpace(column)] = i
		}
	}
	var missing []string
	indices := make([]int, len(s.Columns))
	for i, column := range s.Columns {
		pos, ok := positions[column.Name]
		if !ok {
			missing = append(missing, column.Name)
			continue
		}
		indices[i] = pos
	}
	if len(missing) > 0 {
		return nil, &SchemaError{File: file, Row: 1,
			Reason: "missing column(s) " + strings.Join(missing, ", ")}
	}
	return indices, nil
}

// project picks the schema columns out of a record.
func (s fileSchema) project(file string, rowNum int, indices []int, record []string) ([]string, error) {
	if s.Positional && len(record) != s.width() {
		return nil, &SchemaError{File: file, Row: rowNum,
			Reason: fmt.Sprintf("expected %d columns, got %d", s.width(), len(record))}
	}
	out := make([]string, len(indices))
	for i, idx := range indices {
		if idx >= len(record) {
			return nil, &SchemaError{File: file, Row: rowNum,
				Reason: fmt.Sprintf("missing value for %s", s.Columns[i].Name)}
		}
		out[i] = strings.TrimSpace(record[idx])
	}
	return out, nil
}
