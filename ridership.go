package seoulmetro

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar day in ISO form (YYYY-MM-DD).
type Date string

// ParseCompactDate converts YYYYMMDD or YYYYMM to a Date. Month-only
// values map to the first day of the month.
func ParseCompactDate(s string) (Date, error) {
	var layout string
	switch len(s) {
	case 8:
		layout = "20060102"
	case 6:
		layout = "200601"
	default:
		return "", fmt.Errorf("invalid compact date %q", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid compact date %q", s)
	}
	return Date(t.Format(time.DateOnly)), nil
}

// Month returns the YYYY-MM prefix.
func (d Date) Month() string {
	if len(d) < 7 {
		return string(d)
	}
	return string(d[:7])
}

type RidershipRecord struct {
	Date    Date
	Line    string
	Station string
	Entries int
	Exits   int
}

type LoadOpts struct {
	// SortGlobally re-sorts the concatenated table by date. Without it
	// each file is sorted on its own and files keep their input order.
	SortGlobally bool
	Encoding     Encoding
}

func (o *LoadOpts) encoding() Encoding {
	if o == nil || o.Encoding == "" {
		return EncodingUTF8
	}
	return o.Encoding
}

// LoadRidership reads each file at basePath+name and concatenates them in
// the order given.
func LoadRidership(basePath string, files []string, opts *LoadOpts) ([]RidershipRecord, error) {
	return loadRidership(basePath, files, opts, loadRidershipFile)
}

type ridershipFileLoader func(path string, encoding Encoding) ([]RidershipRecord, error)

func loadRidership(basePath string, files []string, opts *LoadOpts, loadFile ridershipFileLoader) ([]RidershipRecord, error) {
	if len(files) == 0 {
		panic("Missing ridership files")
	}
	if opts == nil {
		opts = &LoadOpts{}
	}

	var out []RidershipRecord
	for _, name := range files {
		records, err := loadFile(basePath+name, opts.encoding())
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}

	if opts.SortGlobally {
		sortByDate(out)
	}
	slog.Info(fmt.Sprintf("Loaded %d ridership rows from %d file(s)", len(out), len(files)))
	return out, nil
}

func loadRidershipFile(path string, encoding Encoding) ([]RidershipRecord, error) {
	rows, err := readCSV(path, encoding)
	if err != nil {
		return nil, err
	}
	indices, err := ridershipSchema.bind(path, rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]RidershipRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		fields, err := ridershipSchema.project(path, rowNum, indices, row)
		if err != nil {
			return nil, err
		}
		record, err := parseRidershipRow(fields)
		if err != nil {
			return nil, &SchemaError{File: path, Row: rowNum, Reason: err.Error()}
		}
		records = append(records, record)
	}

	sortByDate(records)
	slog.Debug(fmt.Sprintf("Read %d rows from %s", len(records), path))
	return records, nil
}

func parseRidershipRow(fields []string) (RidershipRecord, error) {
	date, err := ParseCompactDate(fields[0])
	if err != nil {
		return RidershipRecord{}, err
	}
	entries, err := parseCount(fields[3])
	if err != nil {
		return RidershipRecord{}, fmt.Errorf("EntriesN: %w", err)
	}
	exits, err := parseCount(fields[4])
	if err != nil {
		return RidershipRecord{}, fmt.Errorf("ExitsN: %w", err)
	}
	return RidershipRecord{
		Date:    date,
		Line:    fields[1],
		Station: StripAnnotation(fields[2]),
		Entries: entries,
		Exits:   exits,
	}, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// StripAnnotation drops everything from the first "(" onwards, so
// "City Hall(Line1)" becomes "City Hall".
func StripAnnotation(station string) string {
	if i := strings.IndexByte(station, '('); i >= 0 {
		station = station[:i]
	}
	return strings.TrimSpace(station)
}

func sortByDate(records []RidershipRecord) {
	slices.SortStableFunc(records, func(a, b RidershipRecord) int {
		return cmp.Compare(a.Date, b.Date)
	})
}
