// Package cleaning implements the three user-triggered data-quality
// operations. Each one returns a fresh table plus a report of what it
// touched; the input table is never mutated.
package cleaning

import (
	"strconv"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/montanaflynn/stats"
)

// Report describes the effect of a single cleaning operation.
type Report struct {
	Operation      string
	RowsRemoved    int
	ColumnsImputed int
}

// Deduplicate removes rows that exactly duplicate an earlier row
// across all columns. Applying it twice removes nothing further.
func Deduplicate(t *table.Table) (*table.Table, Report) {
	seen := make(map[string]bool, t.Rows())
	keep := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		key := t.RowKey(i)
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, i)
	}
	removed := t.Rows() - len(keep)
	return t.Select(keep), Report{Operation: "deduplicate", RowsRemoved: removed}
}

// ImputeNumeric fills missing cells in every numeric column with that
// column's mean over non-missing values. Non-numeric columns and the
// row count are untouched. Returns a NO_OP error when the table has no
// numeric columns at all.
func ImputeNumeric(t *table.Table) (*table.Table, Report, error) {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return t, Report{Operation: "impute"}, errors.NoOp("no numeric columns to impute")
	}

	out := t
	report := Report{Operation: "impute"}
	for _, name := range numeric {
		values, mask, ok := out.NumericValues(name)
		if !ok {
			continue
		}
		present := make([]float64, 0, len(values))
		missing := 0
		for i, v := range values {
			if mask[i] {
				present = append(present, v)
			} else {
				missing++
			}
		}
		if missing == 0 {
			continue
		}

		mean, err := stats.Mean(present)
		if err != nil {
			continue
		}

		cells, _ := out.Column(name)
		filled := strconv.FormatFloat(mean, 'g', -1, 64)
		for i := range cells {
			if table.Missing(cells[i]) {
				cells[i] = filled
			}
		}
		replaced, err := out.WithColumn(name, cells)
		if err != nil {
			return t, report, errors.Wrapf(err, "failed to impute column %q", name)
		}
		out = replaced
		report.ColumnsImputed++
	}

	return out, report, nil
}

// DropIncomplete removes every row containing at least one missing
// cell in any column. The result contains no missing values.
func DropIncomplete(t *table.Table) (*table.Table, Report) {
	keep := make([]int, 0, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		complete := true
		for _, cell := range t.Row(i) {
			if table.Missing(cell) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	removed := t.Rows() - len(keep)
	return t.Select(keep), Report{Operation: "drop_incomplete", RowsRemoved: removed}
}
