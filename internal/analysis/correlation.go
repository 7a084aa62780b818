// Package analysis computes the pairwise Pearson correlation matrix
// over a table's numeric columns.
package analysis

import (
	"fmt"
	"math"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"gonum.org/v1/gonum/stat"
)

// Matrix is a square correlation matrix indexed by numeric column name.
type Matrix struct {
	Columns []string
	// Values[i][j] is the Pearson coefficient between Columns[i] and
	// Columns[j], computed over pairwise-complete observations.
	Values [][]float64
}

// At returns the coefficient for a pair of columns by index.
func (m *Matrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Compute builds the correlation matrix for the table's numeric
// columns. Fewer than two numeric columns is a NO_OP; an undefined
// coefficient (constant column, or no overlapping observations) is a
// RENDER_FAILURE.
func Compute(t *table.Table) (*Matrix, error) {
	numeric := t.NumericColumns()
	if len(numeric) < 2 {
		return nil, errors.NoOp("not enough numeric columns for correlation analysis")
	}

	series := make([][]float64, len(numeric))
	masks := make([][]bool, len(numeric))
	for i, name := range numeric {
		values, mask, ok := t.NumericValues(name)
		if !ok {
			return nil, errors.RenderFailure(fmt.Sprintf("column %q is not numeric", name), nil)
		}
		series[i] = values
		masks[i] = mask
	}

	m := &Matrix{
		Columns: numeric,
		Values:  make([][]float64, len(numeric)),
	}
	for i := range numeric {
		m.Values[i] = make([]float64, len(numeric))
		m.Values[i][i] = 1
	}

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			r, err := pearson(series[i], masks[i], series[j], masks[j])
			if err != nil {
				return nil, errors.RenderFailure(
					fmt.Sprintf("correlation between %q and %q is undefined", numeric[i], numeric[j]), err)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	return m, nil
}

// pearson correlates two columns over the rows where both are present.
func pearson(x []float64, xm []bool, y []float64, ym []bool) (float64, error) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if xm[i] && ym[i] {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 {
		return 0, fmt.Errorf("fewer than two overlapping observations")
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("zero variance in one of the columns")
	}
	return r, nil
}
