package cleaning

import (
	"testing"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, headers []string, rows [][]string) *table.Table {
	t.Helper()
	tbl, err := table.New(headers, rows)
	require.NoError(t, err)
	return tbl
}

func TestDeduplicate(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"}, [][]string{
		{"1", "x"},
		{"1", "x"},
		{"2", "y"},
	})

	cleaned, report := Deduplicate(tbl)
	assert.Equal(t, 1, report.RowsRemoved)
	assert.Equal(t, 2, cleaned.Rows())
	assert.Equal(t, []string{"1", "x"}, cleaned.Row(0))
	assert.Equal(t, []string{"2", "y"}, cleaned.Row(1))

	// Original untouched.
	assert.Equal(t, 3, tbl.Rows())
}

func TestDeduplicateIdempotent(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, [][]string{{"1"}, {"1"}, {"2"}, {"2"}, {"3"}})

	once, r1 := Deduplicate(tbl)
	twice, r2 := Deduplicate(once)

	assert.Equal(t, 2, r1.RowsRemoved)
	assert.Equal(t, 0, r2.RowsRemoved)
	assert.Equal(t, once.Rows(), twice.Rows())
	for i := 0; i < once.Rows(); i++ {
		assert.Equal(t, once.Row(i), twice.Row(i))
	}
}

func TestImputeNumericMean(t *testing.T) {
	tbl := mustTable(t, []string{"v", "label"}, [][]string{
		{"1", "a"},
		{"", "b"},
		{"3", ""},
	})

	cleaned, report, err := ImputeNumeric(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ColumnsImputed)
	assert.Equal(t, 3, cleaned.Rows())

	v, _ := cleaned.Column("v")
	assert.Equal(t, []string{"1", "2", "3"}, v)

	// Non-numeric columns unchanged, missing included.
	label, _ := cleaned.Column("label")
	assert.Equal(t, []string{"a", "b", ""}, label)
}

func TestImputeNumericNoNumericColumns(t *testing.T) {
	tbl := mustTable(t, []string{"label"}, [][]string{{"a"}, {""}})

	cleaned, _, err := ImputeNumeric(tbl)
	require.Error(t, err)
	assert.True(t, errors.IsNoOp(err))
	assert.Equal(t, tbl, cleaned)
}

func TestImputeNumericComplete(t *testing.T) {
	tbl := mustTable(t, []string{"v"}, [][]string{{"1"}, {"2"}})

	cleaned, report, err := ImputeNumeric(tbl)
	require.NoError(t, err)
	assert.Equal(t, 0, report.ColumnsImputed)
	v, _ := cleaned.Column("v")
	assert.Equal(t, []string{"1", "2"}, v)
}

func TestDropIncomplete(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"}, [][]string{
		{"1", "x"},
		{"", "y"},
		{"3", ""},
		{"4", "w"},
	})

	cleaned, report := DropIncomplete(tbl)
	assert.Equal(t, 2, report.RowsRemoved)
	assert.Equal(t, 2, cleaned.Rows())
	assert.Equal(t, 0, cleaned.MissingCount())
}

func TestDropAfterImputeRemovesFewer(t *testing.T) {
	tbl := mustTable(t, []string{"v", "w"}, [][]string{
		{"1", "10"},
		{"", "20"},
		{"3", ""},
	})

	_, direct := DropIncomplete(tbl)
	imputed, _, err := ImputeNumeric(tbl)
	require.NoError(t, err)
	_, after := DropIncomplete(imputed)

	assert.Equal(t, 2, direct.RowsRemoved)
	assert.Equal(t, 0, after.RowsRemoved)
}
