package seoulmetro

import (
	"encoding/csv"
	"errors"
	"fmt"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"io"
	"io/fs"
	"os"
)

type Encoding string

const (
	EncodingUTF8  Encoding = "utf-8"
	EncodingEUCKR Encoding = "euc-kr"
)

func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingUTF8, "utf8":
		return EncodingUTF8, nil
	case EncodingEUCKR, "euckr", "cp949":
		return EncodingEUCKR, nil
	default:
		return "", fmt.Errorf("unknown encoding %q", s)
	}
}

// readCSV reads every record of a CSV file, header included.
func readCSV(path string, encoding Encoding) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
	} else if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var input io.Reader = f
	if encoding == EncodingEUCKR {
		input = transform.NewReader(f, korean.EUCKR.NewDecoder())
	}

	r := csv.NewReader(input)
	r.FieldsPerRecord = -1 // Widths are checked against the schema
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, &SchemaError{File: path, Reason: "no header"}
	}
	return records, nil
}
