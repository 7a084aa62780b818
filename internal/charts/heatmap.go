package charts

import (
	"bytes"

	"growthlens/internal/analysis"
	"growthlens/internal/errors"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const heatmapID = "growthlens-heatmap"

// bluesRamp mirrors the sequential blues palette used for correlation
// strength, dark blue at +1 down to near-white at -1.
var bluesRamp = []string{
	"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
	"#4292c6", "#2171b5", "#08519c", "#08306b",
}

// RenderHeatmap draws the correlation matrix as an annotated heatmap
// page with a fixed [-1, 1] color scale.
func RenderHeatmap(m *analysis.Matrix) ([]byte, error) {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         heatmapID,
			Theme:           chartTheme,
			BackgroundColor: chartBackground,
			Width:           chartWidth,
			Height:          chartHeight,
		}),
		titleOpts("Correlation heatmap"),
		tooltipOpts("item"),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      m.Columns,
			AxisLabel: &opts.AxisLabel{Rotate: 45},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      m.Columns,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: bluesRamp},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(m.Columns)*len(m.Columns))
	for i := range m.Columns {
		for j := range m.Columns {
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{i, j, round2(m.At(i, j))},
			})
		}
	}
	hm.AddSeries("pearson", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Color: "#ffffff"}))

	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		return nil, errors.RenderFailure("failed to render correlation heatmap", err)
	}
	return buf.Bytes(), nil
}

// round2 keeps the on-cell annotations readable.
func round2(v float64) float64 {
	if v >= 0 {
		return float64(int(v*100+0.5)) / 100
	}
	return -float64(int(-v*100+0.5)) / 100
}
