package seoulmetro

import (
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var exportPragmas = map[string]string{
	"synchronous": "OFF",
}

var mergedColumns = []string{"date", "line", "station", "entries", "exits", "latitude", "longitude", "color"}

const createMerged = `CREATE TABLE merged (
	date TEXT, line TEXT, station TEXT,
	entries INTEGER, exits INTEGER,
	latitude REAL, longitude REAL, color TEXT)`

const createDrops = `CREATE TABLE drops (kind TEXT, line TEXT, station TEXT, count INTEGER)`

func sqlitexNoop(*sqlite.Stmt) error { return nil }

// ExportDB writes rows and the drop report to a fresh SQLite database at
// outputPath, replacing any existing file.
func ExportDB(rows []MergedRow, report *DropReport, outputPath string) (err error) {
	if outputPath == "" {
		panic("Missing outputPath")
	}

	slog.Info(fmt.Sprintf("Exporting %d rows to %s", len(rows), outputPath))

	err = os.Remove(outputPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	db, err := sqlite.OpenConn(outputPath, 0)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	for pragma, value := range exportPragmas {
		err = sqlitex.Exec(db, "PRAGMA "+pragma+" = "+value, sqlitexNoop)
		if err != nil {
			return err
		}
	}
	for _, query := range []string{createMerged, createDrops} {
		if err := sqlitex.ExecTransient(db, query, sqlitexNoop); err != nil {
			return err
		}
	}

	if err := writeTables(db, rows, report); err != nil {
		return err
	}

	err = db.Close()
	db = nil
	if err != nil {
		return err
	}

	slog.Info(fmt.Sprintf("Wrote %s", outputPath))
	return nil
}

func writeTables(db *sqlite.Conn, rows []MergedRow, report *DropReport) (err error) {
	defer sqlitex.Save(db)(&err)

	var argFragments []string
	for i := range mergedColumns {
		argFragments = append(argFragments, fmt.Sprintf("?%d", i+1))
	}
	query := fmt.Sprintf("INSERT INTO merged (%s) VALUES (%s)",
		strings.Join(mergedColumns, ", "), strings.Join(argFragments, ", "))
	insertStmt, err := db.Prepare(query)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := insertStmt.Reset(); err != nil {
			return err
		}
		if err := insertStmt.ClearBindings(); err != nil {
			return err
		}

		insertStmt.BindText(1, string(row.Date))
		insertStmt.BindText(2, row.Line)
		insertStmt.BindText(3, row.Station)
		insertStmt.BindInt64(4, int64(row.Entries))
		insertStmt.BindInt64(5, int64(row.Exits))
		insertStmt.BindFloat(6, row.Latitude)
		insertStmt.BindFloat(7, row.Longitude)
		insertStmt.BindText(8, row.Color)

		if _, err := insertStmt.Step(); err != nil {
			return err
		}
	}
	slog.Info(fmt.Sprintf("Wrote %d rows to merged", len(rows)))

	entries := report.Entries()
	for _, entry := range entries {
		err := sqlitex.Exec(db, "INSERT INTO drops (kind, line, station, count) VALUES (?, ?, ?, ?)", sqlitexNoop,
			entry.Kind, entry.Line, entry.Station, int64(entry.Count))
		if err != nil {
			return err
		}
	}
	slog.Info(fmt.Sprintf("Wrote %d rows to drops", len(entries)))
	return nil
}

// ExportCSV writes a header then one record per row.
func ExportCSV(rows []MergedRow, w io.Writer) error {
	outputCSV := csv.NewWriter(w)
	if err := outputCSV.Write(mergedColumns); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			string(row.Date),
			row.Line,
			row.Station,
			strconv.Itoa(row.Entries),
			strconv.Itoa(row.Exits),
			strconv.FormatFloat(row.Latitude, 'f', -1, 64),
			strconv.FormatFloat(row.Longitude, 'f', -1, 64),
			row.Color,
		}
		if err := outputCSV.Write(record); err != nil {
			return err
		}
	}
	outputCSV.Flush()
	return outputCSV.Error()
}

// ExportCSVFile is ExportCSV to a newly created file.
func ExportCSVFile(rows []MergedRow, outputPath string) error {
	outputF, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := ExportCSV(rows, outputF); err != nil {
		_ = outputF.Close()
		return err
	}
	if err := outputF.Close(); err != nil {
		return err
	}
	slog.Info(fmt.Sprintf("Wrote %d rows to %s", len(rows), outputPath))
	return nil
}
