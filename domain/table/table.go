// Package table defines the in-memory dataset that every dashboard
// component reads: ordered named columns of string cells, positionally
// aligned into rows. Cells keep their raw bytes so a load and export
// round-trips exactly; a cell that is empty or whitespace-only counts
// as missing.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a column by the values it holds.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Table is an immutable-by-convention tabular dataset. Cleaning
// operations return a new Table rather than mutating in place.
type Table struct {
	headers []string
	columns map[string][]string
}

// New builds a Table from a header row and data rows. Rows shorter than
// the header are padded with missing cells; longer rows are truncated.
func New(headers []string, rows [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}

	seen := make(map[string]bool, len(headers))
	trimmed := make([]string, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if seen[h] {
			return nil, fmt.Errorf("duplicate column name %q", h)
		}
		seen[h] = true
		trimmed[i] = h
	}

	columns := make(map[string][]string, len(trimmed))
	for _, h := range trimmed {
		columns[h] = make([]string, 0, len(rows))
	}
	for _, row := range rows {
		for i, h := range trimmed {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			columns[h] = append(columns[h], cell)
		}
	}

	return &Table{headers: trimmed, columns: columns}, nil
}

// Headers returns the column names in their original order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// Rows returns the number of data rows.
func (t *Table) Rows() int {
	if len(t.headers) == 0 {
		return 0
	}
	return len(t.columns[t.headers[0]])
}

// Cols returns the number of columns.
func (t *Table) Cols() int {
	return len(t.headers)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the raw cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(col))
	copy(out, col)
	return out, true
}

// Row returns one row in header order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.headers))
	for j, h := range t.headers {
		row[j] = t.columns[h][i]
	}
	return row
}

// Missing reports whether a cell holds no value. Whitespace-only cells
// count as missing for analysis while their raw bytes stay intact for
// export.
func Missing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// ColumnKind classifies a column. A column is numeric when it has at
// least one non-missing cell and every non-missing cell parses as a
// float; anything else is categorical. Parsing tolerates surrounding
// whitespace.
func (t *Table) ColumnKind(name string) Kind {
	col, ok := t.columns[name]
	if !ok {
		return KindCategorical
	}
	present := 0
	for _, cell := range col {
		if Missing(cell) {
			continue
		}
		present++
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return KindCategorical
		}
	}
	if present == 0 {
		return KindCategorical
	}
	return KindNumeric
}

// NumericColumns returns the names of all numeric columns in header order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, h := range t.headers {
		if t.ColumnKind(h) == KindNumeric {
			out = append(out, h)
		}
	}
	return out
}

// NumericValues extracts the parsed values of a column together with a
// presence mask: mask[i] is false where the cell is missing. Returns
// false when the column does not exist or is not numeric.
func (t *Table) NumericValues(name string) (values []float64, mask []bool, ok bool) {
	if t.ColumnKind(name) != KindNumeric {
		return nil, nil, false
	}
	col := t.columns[name]
	values = make([]float64, len(col))
	mask = make([]bool, len(col))
	for i, cell := range col {
		if Missing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, nil, false
		}
		values[i] = v
		mask[i] = true
	}
	return values, mask, true
}

// MissingCount returns the number of missing cells across the table.
func (t *Table) MissingCount() int {
	n := 0
	for _, h := range t.headers {
		for _, cell := range t.columns[h] {
			if Missing(cell) {
				n++
			}
		}
	}
	return n
}

// Select builds a new Table containing only the rows whose index is in
// keep, preserving order.
func (t *Table) Select(keep []int) *Table {
	columns := make(map[string][]string, len(t.headers))
	for _, h := range t.headers {
		src := t.columns[h]
		dst := make([]string, 0, len(keep))
		for _, i := range keep {
			dst = append(dst, src[i])
		}
		columns[h] = dst
	}
	headers := make([]string, len(t.headers))
	copy(headers, t.headers)
	return &Table{headers: headers, columns: columns}
}

// Clone returns a deep copy sharing no storage with the receiver.
func (t *Table) Clone() *Table {
	columns := make(map[string][]string, len(t.headers))
	for _, h := range t.headers {
		src := t.columns[h]
		dst := make([]string, len(src))
		copy(dst, src)
		columns[h] = dst
	}
	headers := make([]string, len(t.headers))
	copy(headers, t.headers)
	return &Table{headers: headers, columns: columns}
}

// WithColumn returns a copy of the table with the named column replaced.
// The replacement must match the row count.
func (t *Table) WithColumn(name string, cells []string) (*Table, error) {
	if _, ok := t.columns[name]; !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	if len(cells) != t.Rows() {
		return nil, fmt.Errorf("column %q length %d does not match row count %d", name, len(cells), t.Rows())
	}
	columns := make(map[string][]string, len(t.headers))
	for _, h := range t.headers {
		if h == name {
			dst := make([]string, len(cells))
			copy(dst, cells)
			columns[h] = dst
			continue
		}
		src := t.columns[h]
		dst := make([]string, len(src))
		copy(dst, src)
		columns[h] = dst
	}
	headers := make([]string, len(t.headers))
	copy(headers, t.headers)
	return &Table{headers: headers, columns: columns}, nil
}

// RowKey returns a string uniquely identifying the full cell contents
// of a row, used for exact-duplicate detection.
func (t *Table) RowKey(i int) string {
	var sb strings.Builder
	for _, h := range t.headers {
		sb.WriteString(strconv.Itoa(len(t.columns[h][i])))
		sb.WriteByte(':')
		sb.WriteString(t.columns[h][i])
		sb.WriteByte('\x1f')
	}
	return sb.String()
}
