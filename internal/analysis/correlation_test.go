package analysis

import (
	"testing"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePerfectCorrelation(t *testing.T) {
	tbl, err := table.New([]string{"x", "y"}, [][]string{
		{"1", "2"},
		{"2", "4"},
		{"3", "6"},
	})
	require.NoError(t, err)

	m, err := Compute(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, m.Columns)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, m.At(0, 0), 1e-9)
	assert.Equal(t, m.At(0, 1), m.At(1, 0))
}

func TestComputeNegativeCorrelation(t *testing.T) {
	tbl, err := table.New([]string{"x", "y"}, [][]string{
		{"1", "3"},
		{"2", "2"},
		{"3", "1"},
	})
	require.NoError(t, err)

	m, err := Compute(tbl)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m.At(0, 1), 1e-9)
}

func TestComputeNotEnoughNumericColumns(t *testing.T) {
	tbl, err := table.New([]string{"x", "label"}, [][]string{
		{"1", "a"},
		{"2", "b"},
	})
	require.NoError(t, err)

	_, err = Compute(tbl)
	require.Error(t, err)
	assert.True(t, errors.IsNoOp(err))
}

func TestComputeConstantColumnIsRenderFailure(t *testing.T) {
	tbl, err := table.New([]string{"x", "y"}, [][]string{
		{"1", "5"},
		{"2", "5"},
		{"3", "5"},
	})
	require.NoError(t, err)

	_, err = Compute(tbl)
	require.Error(t, err)
	assert.Equal(t, errors.CodeRenderFailure, errors.GetCode(err))
}

func TestComputePairwiseComplete(t *testing.T) {
	// Missing cells drop the row only for the affected pair.
	tbl, err := table.New([]string{"x", "y"}, [][]string{
		{"1", "1"},
		{"2", ""},
		{"3", "3"},
		{"4", "4"},
	})
	require.NoError(t, err)

	m, err := Compute(tbl)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9)
}
