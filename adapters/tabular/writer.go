package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the single sheet written on spreadsheet export.
	SheetName = "Data"

	MediaTypeCSV  = "text/csv"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Artifact is an in-memory export ready for download.
type Artifact struct {
	Data      []byte
	Filename  string
	MediaType string
}

// DefaultBasename returns the date-stamped default export name.
func DefaultBasename(now time.Time) string {
	return fmt.Sprintf("growth_data_%s", now.Format("2006-01-02"))
}

// Export serializes a table in the requested format under the chosen
// base file name.
func Export(t *table.Table, format Format, basename string) (*Artifact, error) {
	if basename == "" {
		basename = DefaultBasename(time.Now())
	}

	switch format {
	case FormatCSV:
		data, err := WriteCSV(t)
		if err != nil {
			return nil, err
		}
		return &Artifact{Data: data, Filename: basename + ".csv", MediaType: MediaTypeCSV}, nil
	case FormatXLSX:
		data, err := WriteXLSX(t)
		if err != nil {
			return nil, err
		}
		return &Artifact{Data: data, Filename: basename + ".xlsx", MediaType: MediaTypeXLSX}, nil
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported export format %q", format))
	}
}

// WriteCSV encodes the table as delimited text. The output carries no
// row-index column and round-trips the cell values exactly.
func WriteCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Headers()); err != nil {
		return nil, errors.Wrap(err, "failed to write CSV header")
	}
	for i := 0; i < t.Rows(); i++ {
		if err := w.Write(t.Row(i)); err != nil {
			return nil, errors.Wrapf(err, "failed to write CSV row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush CSV output")
	}
	return buf.Bytes(), nil
}

// WriteXLSX encodes the table into a single-sheet workbook.
func WriteXLSX(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create export sheet")
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, errors.Wrap(err, "failed to drop default sheet")
	}

	for j, h := range t.Headers() {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, errors.Wrapf(err, "failed to write header cell %s", cell)
		}
	}
	for i := 0; i < t.Rows(); i++ {
		row := t.Row(i)
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, errors.Wrapf(err, "failed to write cell %s", cell)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to serialize workbook")
	}
	return buf.Bytes(), nil
}
