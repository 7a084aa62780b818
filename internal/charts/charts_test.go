package charts

import (
	"testing"

	"growthlens/domain/table"
	"growthlens/internal/analysis"
	"growthlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"region", "sales", "visits"}, [][]string{
		{"north", "10", "1"},
		{"south", "20", "2"},
		{"north", "30", "3"},
		{"south", "40", "4"},
	})
	require.NoError(t, err)
	return tbl
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Histogram")
	assert.True(t, ok)
	assert.Equal(t, KindHistogram, k)

	_, ok = ParseKind("Sunburst")
	assert.False(t, ok)
}

func TestBuildEveryKind(t *testing.T) {
	tbl := sampleTable(t)
	for _, kind := range Kinds() {
		out, err := Build(tbl, Spec{Kind: kind, X: "region", Y: "sales"})
		require.NoError(t, err, "kind %s", kind)
		assert.Contains(t, string(out), "echarts", "kind %s", kind)
	}
}

func TestBuildWithColorGroups(t *testing.T) {
	tbl := sampleTable(t)
	out, err := Build(tbl, Spec{Kind: KindBar, X: "region", Y: "sales", Color: "visits"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBuildUnknownXIsRenderFailure(t *testing.T) {
	tbl := sampleTable(t)
	_, err := Build(tbl, Spec{Kind: KindBar, X: "nope", Y: "sales"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailure, errors.GetCode(err))
}

func TestBuildNonNumericYIsRenderFailure(t *testing.T) {
	tbl := sampleTable(t)
	_, err := Build(tbl, Spec{Kind: KindScatter, X: "sales", Y: "region"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailure, errors.GetCode(err))
}

func TestBuildMissingYIsRenderFailure(t *testing.T) {
	tbl := sampleTable(t)
	_, err := Build(tbl, Spec{Kind: KindLine, X: "region", Y: ""})
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailure, errors.GetCode(err))
}

func TestHistogramDoesNotRequireY(t *testing.T) {
	tbl := sampleTable(t)
	out, err := Build(tbl, Spec{Kind: KindHistogram, X: "sales"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestPieIgnoresY(t *testing.T) {
	// Changing only the y-field must not change a pie render at all.
	tbl := sampleTable(t)
	a, err := Build(tbl, Spec{Kind: KindPie, X: "region", Y: "sales"})
	require.NoError(t, err)
	b, err := Build(tbl, Spec{Kind: KindPie, X: "region", Y: "visits"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestViolinSplitsByColorGroup(t *testing.T) {
	tbl, err := table.New([]string{"region", "sales", "cohort"}, [][]string{
		{"north", "10", "a"},
		{"north", "12", "a"},
		{"north", "30", "b"},
		{"north", "33", "b"},
		{"south", "20", "a"},
		{"south", "22", "a"},
	})
	require.NoError(t, err)

	out, err := Build(tbl, Spec{Kind: KindViolin, X: "region", Y: "sales", Color: "cohort"})
	require.NoError(t, err)
	body := string(out)
	// One density curve per (category, group) pair that has data.
	assert.Contains(t, body, "north / a")
	assert.Contains(t, body, "north / b")
	assert.Contains(t, body, "south / a")
	assert.NotContains(t, body, "south / b")

	// Without a color field the series carry plain category names.
	out, err = Build(tbl, Spec{Kind: KindViolin, X: "region", Y: "sales"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), " / ")
}

func TestBuildDeterministic(t *testing.T) {
	tbl := sampleTable(t)
	spec := Spec{Kind: KindBar, X: "region", Y: "sales"}
	a, err := Build(tbl, spec)
	require.NoError(t, err)
	b, err := Build(tbl, spec)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBinEdgesSturges(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	mask := []bool{true, true, true, true, true, true, true, true}
	labels, edges := binEdges(values, mask)
	// Sturges: ceil(log2(8)) + 1 = 4 bins.
	assert.Len(t, labels, 4)
	assert.Len(t, edges, 5)
	assert.Equal(t, 0, binIndex(edges, 1))
	assert.Equal(t, 3, binIndex(edges, 8))
}

func TestBinEdgesConstantColumn(t *testing.T) {
	labels, edges := binEdges([]float64{5, 5, 5}, []bool{true, true, true})
	assert.Len(t, labels, 1)
	assert.Equal(t, 0, binIndex(edges, 5))
}

func TestFiveNumber(t *testing.T) {
	summary, err := fiveNumber([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 1.0, summary[0])
	assert.Equal(t, 3.0, summary[2])
	assert.Equal(t, 5.0, summary[4])

	_, err = fiveNumber(nil)
	assert.Error(t, err)
}

func TestGaussianKDEIntegratesToOne(t *testing.T) {
	grid, density, err := gaussianKDE([]float64{1, 2, 2, 3, 4, 4, 5})
	require.NoError(t, err)
	require.Len(t, grid, kdePoints)

	// Trapezoid integral over the grid should be close to 1.
	var area float64
	for i := 1; i < len(grid); i++ {
		area += (grid[i] - grid[i-1]) * (density[i] + density[i-1]) / 2
	}
	assert.InDelta(t, 1.0, area, 0.1)
}

func TestGaussianKDEConstantSample(t *testing.T) {
	grid, density, err := gaussianKDE([]float64{7, 7, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, grid)
	assert.Equal(t, []float64{1}, density)
}

func TestRenderHeatmap(t *testing.T) {
	m := &analysis.Matrix{
		Columns: []string{"a", "b"},
		Values:  [][]float64{{1, -0.5}, {-0.5, 1}},
	}
	out, err := RenderHeatmap(m)
	require.NoError(t, err)
	assert.Contains(t, string(out), "echarts")
	assert.Contains(t, string(out), "-0.5")
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.67, round2(0.666))
	assert.Equal(t, -0.67, round2(-0.666))
	assert.Equal(t, 1.0, round2(1))
}
