// Package profiling computes descriptive statistics and a bounded row
// preview for the current table. It never mutates the table and treats
// empty tables as degenerate input, not as errors.
package profiling

import (
	"context"
	"sync"

	"growthlens/domain/table"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
)

// ColumnDescribe holds the eight-number summary of one numeric column.
// Missing cells are excluded from every statistic.
type ColumnDescribe struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Preview is a bounded slice of the leading rows.
type Preview struct {
	Headers []string
	Rows    [][]string
}

// Summary is the full profiler output for one table.
type Summary struct {
	Rows            int
	Cols            int
	NumericCols     int
	CategoricalCols int
	Describe        []ColumnDescribe
	Preview         Preview
}

// Profile summarizes a table. previewN bounds the preview; the
// describe table covers numeric columns only and may be empty.
func Profile(ctx context.Context, t *table.Table, previewN int) (*Summary, error) {
	numeric := t.NumericColumns()

	summary := &Summary{
		Rows:            t.Rows(),
		Cols:            t.Cols(),
		NumericCols:     len(numeric),
		CategoricalCols: t.Cols() - len(numeric),
	}

	describe := make([]ColumnDescribe, len(numeric))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for idx, name := range numeric {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			d := describeColumn(t, name)
			mu.Lock()
			describe[idx] = d
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	summary.Describe = describe

	n := previewN
	if n > t.Rows() {
		n = t.Rows()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	summary.Preview = Preview{Headers: t.Headers(), Rows: rows}

	return summary, nil
}

// describeColumn computes the summary for one numeric column. Every
// statistic degrades to zero rather than failing on empty input.
func describeColumn(t *table.Table, name string) ColumnDescribe {
	values, mask, ok := t.NumericValues(name)
	d := ColumnDescribe{Column: name}
	if !ok {
		return d
	}

	present := make([]float64, 0, len(values))
	for i, v := range values {
		if mask[i] {
			present = append(present, v)
		}
	}
	d.Count = len(present)
	if d.Count == 0 {
		return d
	}
	if d.Count == 1 {
		v := present[0]
		d.Mean, d.Min, d.Q25, d.Median, d.Q75, d.Max = v, v, v, v, v, v
		return d
	}

	d.Mean, _ = stats.Mean(present)
	d.StdDev, _ = stats.StandardDeviationSample(present)
	d.Min, _ = stats.Min(present)
	d.Q25, _ = stats.Percentile(present, 25)
	d.Median, _ = stats.Median(present)
	d.Q75, _ = stats.Percentile(present, 75)
	d.Max, _ = stats.Max(present)
	return d
}
