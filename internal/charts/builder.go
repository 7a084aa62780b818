package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Fixed dark visual theme matching the dashboard styling.
const (
	chartTheme      = "dark"
	chartBackground = "#1e2229"
	chartWidth      = "900px"
	chartHeight     = "520px"

	// Deterministic chart ID: identical specs render identical bytes.
	chartID = "growthlens-chart"

	defaultGroup = "all"
)

type renderer interface {
	Render(w io.Writer) error
}

// Build renders the chart described by spec from the table. The result
// is a complete HTML page suitable for embedding in an iframe.
func Build(t *table.Table, spec Spec) ([]byte, error) {
	if err := spec.validate(t); err != nil {
		return nil, err
	}

	var (
		chart renderer
		err   error
	)
	switch spec.Kind {
	case KindBar:
		chart, err = buildBar(t, spec)
	case KindLine:
		chart, err = buildLine(t, spec)
	case KindScatter:
		chart, err = buildScatter(t, spec)
	case KindHistogram:
		chart, err = buildHistogram(t, spec)
	case KindBox:
		chart, err = buildBox(t, spec)
	case KindPie:
		chart, err = buildPie(t, spec)
	case KindViolin:
		chart, err = buildViolin(t, spec)
	default:
		return nil, errors.RenderFailure(fmt.Sprintf("unsupported chart kind %q", spec.Kind), nil)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return nil, errors.RenderFailure("failed to render chart", err)
	}
	return buf.Bytes(), nil
}

// initOpts returns the shared initialization for every chart.
func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		ChartID:         chartID,
		Theme:           chartTheme,
		BackgroundColor: chartBackground,
		Width:           chartWidth,
		Height:          chartHeight,
	})
}

func titleOpts(title string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{Title: title})
}

func tooltipOpts(trigger string) charts.GlobalOpts {
	return charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: trigger})
}

// groupIndices splits row indices by the color field. Without a color
// field every row lands in a single default group. Group order is
// first-appearance order so renders stay deterministic.
func groupIndices(t *table.Table, color string) ([]string, map[string][]int) {
	if color == "" {
		all := make([]int, t.Rows())
		for i := range all {
			all[i] = i
		}
		return []string{defaultGroup}, map[string][]int{defaultGroup: all}
	}

	cells, _ := t.Column(color)
	var order []string
	groups := make(map[string][]int)
	for i, cell := range cells {
		name := categoryOf(cell)
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], i)
	}
	return order, groups
}

// categoryOrder returns the unique x values in first-appearance order.
func categoryOrder(cells []string) []string {
	seen := make(map[string]bool, len(cells))
	var order []string
	for _, cell := range cells {
		name := categoryOf(cell)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

func categoryOf(cell string) string {
	if table.Missing(cell) {
		return "(missing)"
	}
	return cell
}

// buildBar sums y per (x category, color group) and draws one bar
// series per group.
func buildBar(t *table.Table, spec Spec) (renderer, error) {
	xCells, _ := t.Column(spec.X)
	yValues, yMask, _ := t.NumericValues(spec.Y)

	categories := categoryOrder(xCells)
	groupOrder, groups := groupIndices(t, spec.Color)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("%s by %s", spec.Y, spec.X)),
		tooltipOpts("axis"),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.Y, Type: "value"}),
	)
	bar.SetXAxis(categories)

	for _, group := range groupOrder {
		sums := make(map[string]float64, len(categories))
		for _, i := range groups[group] {
			if !yMask[i] {
				continue
			}
			sums[categoryOf(xCells[i])] += yValues[i]
		}
		data := make([]opts.BarData, len(categories))
		for ci, cat := range categories {
			data[ci] = opts.BarData{Value: sums[cat]}
		}
		bar.AddSeries(group, data)
	}
	return bar, nil
}

// buildLine draws one connected line per color group. A numeric x uses
// a value axis with points sorted by x; a categorical x reuses the bar
// aggregation over the category axis.
func buildLine(t *table.Table, spec Spec) (renderer, error) {
	xCells, _ := t.Column(spec.X)
	yValues, yMask, _ := t.NumericValues(spec.Y)
	groupOrder, groups := groupIndices(t, spec.Color)

	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("%s over %s", spec.Y, spec.X)),
		tooltipOpts("axis"),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.Y, Type: "value"}),
	)

	if t.ColumnKind(spec.X) == table.KindNumeric {
		xValues, xMask, _ := t.NumericValues(spec.X)
		line.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "value"}))
		for _, group := range groupOrder {
			type point struct{ x, y float64 }
			var points []point
			for _, i := range groups[group] {
				if xMask[i] && yMask[i] {
					points = append(points, point{xValues[i], yValues[i]})
				}
			}
			sort.Slice(points, func(a, b int) bool { return points[a].x < points[b].x })
			data := make([]opts.LineData, len(points))
			for pi, p := range points {
				data[pi] = opts.LineData{Value: []interface{}{p.x, p.y}}
			}
			line.AddSeries(group, data,
				charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
		}
		return line, nil
	}

	categories := categoryOrder(xCells)
	line.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "category"}))
	line.SetXAxis(categories)
	for _, group := range groupOrder {
		sums := make(map[string]float64, len(categories))
		for _, i := range groups[group] {
			if !yMask[i] {
				continue
			}
			sums[categoryOf(xCells[i])] += yValues[i]
		}
		data := make([]opts.LineData, len(categories))
		for ci, cat := range categories {
			data[ci] = opts.LineData{Value: sums[cat]}
		}
		line.AddSeries(group, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	return line, nil
}

// buildScatter plots the raw point cloud, one series per color group.
func buildScatter(t *table.Table, spec Spec) (renderer, error) {
	yValues, yMask, _ := t.NumericValues(spec.Y)
	groupOrder, groups := groupIndices(t, spec.Color)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("%s vs %s", spec.Y, spec.X)),
		tooltipOpts("item"),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.Y, Type: "value"}),
	)

	if t.ColumnKind(spec.X) == table.KindNumeric {
		xValues, xMask, _ := t.NumericValues(spec.X)
		scatter.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "value"}))
		for _, group := range groupOrder {
			var data []opts.ScatterData
			for _, i := range groups[group] {
				if xMask[i] && yMask[i] {
					data = append(data, opts.ScatterData{Value: []interface{}{xValues[i], yValues[i]}})
				}
			}
			scatter.AddSeries(group, data)
		}
		return scatter, nil
	}

	xCells, _ := t.Column(spec.X)
	categories := categoryOrder(xCells)
	scatter.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "category"}))
	scatter.SetXAxis(categories)
	for _, group := range groupOrder {
		var data []opts.ScatterData
		for _, i := range groups[group] {
			if yMask[i] {
				data = append(data, opts.ScatterData{Value: []interface{}{categoryOf(xCells[i]), yValues[i]}})
			}
		}
		scatter.AddSeries(group, data)
	}
	return scatter, nil
}

// buildHistogram draws the frequency distribution of x. Numeric x is
// binned with Sturges' rule; categorical x falls back to value counts.
// The y-field is ignored for this kind.
func buildHistogram(t *table.Table, spec Spec) (renderer, error) {
	groupOrder, groups := groupIndices(t, spec.Color)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("Distribution of %s", spec.X)),
		tooltipOpts("axis"),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "category", AxisLabel: &opts.AxisLabel{Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count", Type: "value"}),
	)

	if t.ColumnKind(spec.X) == table.KindNumeric {
		values, mask, _ := t.NumericValues(spec.X)
		labels, edges := binEdges(values, mask)
		bar.SetXAxis(labels)
		for _, group := range groupOrder {
			counts := make([]int, len(labels))
			for _, i := range groups[group] {
				if !mask[i] {
					continue
				}
				counts[binIndex(edges, values[i])]++
			}
			data := make([]opts.BarData, len(counts))
			for ci, c := range counts {
				data[ci] = opts.BarData{Value: c}
			}
			bar.AddSeries(group, data)
		}
		return bar, nil
	}

	xCells, _ := t.Column(spec.X)
	categories := categoryOrder(xCells)
	bar.SetXAxis(categories)
	for _, group := range groupOrder {
		counts := make(map[string]int, len(categories))
		for _, i := range groups[group] {
			counts[categoryOf(xCells[i])]++
		}
		data := make([]opts.BarData, len(categories))
		for ci, cat := range categories {
			data[ci] = opts.BarData{Value: counts[cat]}
		}
		bar.AddSeries(group, data)
	}
	return bar, nil
}

// binEdges produces Sturges bins over the present values. Labels are
// "lo – hi" ranges; a degenerate constant column gets one bin.
func binEdges(values []float64, mask []bool) (labels []string, edges []float64) {
	min, max := math.Inf(1), math.Inf(-1)
	n := 0
	for i, v := range values {
		if !mask[i] {
			continue
		}
		n++
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if n == 0 {
		return []string{"(no data)"}, []float64{0, 0}
	}
	if min == max {
		return []string{formatBin(min, max)}, []float64{min, max}
	}

	k := int(math.Ceil(math.Log2(float64(n)))) + 1
	if k < 1 {
		k = 1
	}
	width := (max - min) / float64(k)
	edges = make([]float64, k+1)
	labels = make([]string, k)
	for i := 0; i <= k; i++ {
		edges[i] = min + float64(i)*width
	}
	edges[k] = max
	for i := 0; i < k; i++ {
		labels[i] = formatBin(edges[i], edges[i+1])
	}
	return labels, edges
}

func formatBin(lo, hi float64) string {
	return strconv.FormatFloat(lo, 'g', 4, 64) + " – " + strconv.FormatFloat(hi, 'g', 4, 64)
}

// binIndex places v into its bin; the final bin is closed on both ends.
func binIndex(edges []float64, v float64) int {
	last := len(edges) - 2
	if last < 0 {
		return 0
	}
	for i := 0; i < last; i++ {
		if v < edges[i+1] {
			return i
		}
	}
	return last
}

// buildBox draws a five-number box per x category.
func buildBox(t *table.Table, spec Spec) (renderer, error) {
	xCells, _ := t.Column(spec.X)
	yValues, yMask, _ := t.NumericValues(spec.Y)
	categories := categoryOrder(xCells)

	samples := make(map[string][]float64, len(categories))
	for i := range xCells {
		if !yMask[i] {
			continue
		}
		cat := categoryOf(xCells[i])
		samples[cat] = append(samples[cat], yValues[i])
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("%s by %s", spec.Y, spec.X)),
		tooltipOpts("item"),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.X, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.Y, Type: "value"}),
	)
	box.SetXAxis(categories)

	data := make([]opts.BoxPlotData, len(categories))
	for ci, cat := range categories {
		summary, err := fiveNumber(samples[cat])
		if err != nil {
			return nil, errors.RenderFailure(fmt.Sprintf("cannot summarize %q for category %q", spec.Y, cat), err)
		}
		data[ci] = opts.BoxPlotData{Value: summary[:]}
	}
	box.AddSeries(spec.Y, data)
	return box, nil
}

// buildPie draws proportion wedges from the value counts of x. The
// y-field and color field are ignored for this kind.
func buildPie(t *table.Table, spec Spec) (renderer, error) {
	xCells, _ := t.Column(spec.X)
	categories := categoryOrder(xCells)

	counts := make(map[string]int, len(categories))
	for _, cell := range xCells {
		counts[categoryOf(cell)]++
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		titleOpts(fmt.Sprintf("Share of %s", spec.X)),
		tooltipOpts("item"),
	)

	data := make([]opts.PieData, len(categories))
	for ci, cat := range categories {
		data[ci] = opts.PieData{Name: cat, Value: counts[cat]}
	}
	pie.AddSeries(spec.X, data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}))
	return pie, nil
}
