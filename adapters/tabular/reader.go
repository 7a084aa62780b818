// Package tabular parses uploaded byte streams into tables and
// serializes tables back out as CSV or XLSX download artifacts.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Format identifies a supported file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFor dispatches purely on the file-name suffix.
func FormatFor(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// Read parses an uploaded stream into a Table. Any parse failure comes
// back as a LOAD_FAILURE with a human-readable message; no partial
// table is ever returned.
func Read(r io.Reader, filename string) (*table.Table, error) {
	format, ok := FormatFor(filename)
	if !ok {
		return nil, errors.LoadFailure(fmt.Sprintf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename)), nil)
	}

	switch format {
	case FormatCSV:
		return readCSV(r)
	default:
		return readXLSX(r)
	}
}

func readCSV(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadFailure("failed to read CSV file", err)
	}
	return fromRows(rows)
}

func readXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.LoadFailure("failed to open spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.LoadFailure("spreadsheet has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.LoadFailure(fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}
	return fromRows(rows)
}

// fromRows converts raw string rows into a Table, treating the first
// row as the header.
func fromRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, errors.LoadFailure("file has no header row", nil)
	}
	t, err := table.New(rows[0], rows[1:])
	if err != nil {
		return nil, errors.LoadFailure("file has an invalid header row", err)
	}
	return t, nil
}
