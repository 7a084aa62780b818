package charts

import (
	"fmt"
	"math"
	"sort"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"
)

// kdePoints is how many evaluation points each density curve gets.
const kdePoints = 60

// fiveNumber returns the box-plot summary [min, q1, median, q3, max].
func fiveNumber(sample []float64) ([5]float64, error) {
	var summary [5]float64
	if len(sample) == 0 {
		return summary, fmt.Errorf("empty sample")
	}
	if len(sample) == 1 {
		v := sample[0]
		return [5]float64{v, v, v, v, v}, nil
	}

	min, err := stats.Min(sample)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(sample)
	if err != nil {
		return summary, err
	}
	quartiles, err := stats.Quartile(sample)
	if err != nil {
		return summary, err
	}
	return [5]float64{min, quartiles.Q1, quartiles.Q2, quartiles.Q3, max}, nil
}

// buildViolin approximates a violin plot with one smoothed density
// curve per x category: the y-field's Gaussian KDE, rendered as filled
// area lines over a shared value axis. With a color field each category
// splits into one curve per color group.
func buildViolin(t *table.Table, spec Spec) (renderer, error) {
	xCells, _ := t.Column(spec.X)
	yValues, yMask, _ := t.NumericValues(spec.Y)
	categories := categoryOrder(xCells)
	groupOrder, groups := groupIndices(t, spec.Color)

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("Distribution of %s by %s", spec.Y, spec.X)),
		tooltipOpts("axis"),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.Y, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "density", Type: "value"}),
	)

	for _, cat := range categories {
		for _, group := range groupOrder {
			var sample []float64
			for _, i := range groups[group] {
				if yMask[i] && categoryOf(xCells[i]) == cat {
					sample = append(sample, yValues[i])
				}
			}
			if len(sample) == 0 {
				continue
			}
			grid, density, err := gaussianKDE(sample)
			if err != nil {
				return nil, errors.RenderFailure(
					fmt.Sprintf("cannot estimate the density of %q for category %q", spec.Y, cat), err)
			}
			data := make([]opts.LineData, len(grid))
			for i := range grid {
				data[i] = opts.LineData{Value: []interface{}{grid[i], density[i]}}
			}
			name := cat
			if spec.Color != "" {
				name = cat + " / " + group
			}
			line.AddSeries(name, data,
				charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
				charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: 0.35}),
			)
		}
	}
	return line, nil
}

// gaussianKDE evaluates a Gaussian kernel density estimate over an
// evenly spaced grid spanning the sample plus one bandwidth of margin.
// Bandwidth follows Silverman's rule of thumb.
func gaussianKDE(sample []float64) (grid, density []float64, err error) {
	if len(sample) == 0 {
		return nil, nil, fmt.Errorf("empty sample")
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)
	min, max := sorted[0], sorted[len(sorted)-1]

	h := silvermanBandwidth(sorted)
	if h <= 0 {
		// Constant sample: degenerate spike at the single value.
		return []float64{min}, []float64{1}, nil
	}

	lo, hi := min-h, max+h
	step := (hi - lo) / float64(kdePoints-1)
	grid = make([]float64, kdePoints)
	density = make([]float64, kdePoints)
	norm := 1 / (float64(len(sorted)) * h * math.Sqrt(2*math.Pi))
	for i := 0; i < kdePoints; i++ {
		x := lo + float64(i)*step
		grid[i] = x
		var sum float64
		for _, v := range sorted {
			u := (x - v) / h
			sum += math.Exp(-0.5 * u * u)
		}
		density[i] = norm * sum
	}
	return grid, density, nil
}

// silvermanBandwidth is 0.9 * min(sd, iqr/1.34) * n^(-1/5), zero when
// the sample has no spread.
func silvermanBandwidth(sorted []float64) float64 {
	n := float64(len(sorted))
	if n < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(sorted)
	if err != nil {
		return 0
	}
	spread := sd
	if quartiles, err := stats.Quartile(sorted); err == nil {
		iqr := (quartiles.Q3 - quartiles.Q1) / 1.34
		if iqr > 0 && iqr < spread {
			spread = iqr
		}
	}
	return 0.9 * spread * math.Pow(n, -0.2)
}
