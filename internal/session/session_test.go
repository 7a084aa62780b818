package session

import (
	"testing"

	"growthlens/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateMintsAndReuses(t *testing.T) {
	st := NewStore()

	s1 := st.GetOrCreate("")
	require.NotNil(t, s1)
	assert.NotEmpty(t, s1.ID)

	s2 := st.GetOrCreate(s1.ID)
	assert.Same(t, s1, s2)

	s3 := st.GetOrCreate("unknown-id")
	assert.NotEqual(t, s1.ID, s3.ID)
	assert.Equal(t, 2, st.Len())
}

func TestSetTableArmsCelebration(t *testing.T) {
	tbl, err := table.New([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	s := &Session{ID: "x"}
	assert.False(t, s.Loaded())
	assert.False(t, s.Celebrate())

	s.SetTable(tbl, "data.csv")
	assert.True(t, s.Loaded())
	assert.Equal(t, "data.csv", s.Filename)

	// One-shot: first render consumes it.
	assert.True(t, s.Celebrate())
	assert.False(t, s.Celebrate())
}

func TestReplaceTableKeepsWidgets(t *testing.T) {
	tbl, err := table.New([]string{"a"}, [][]string{{"1"}, {"1"}})
	require.NoError(t, err)

	s := &Session{ID: "x"}
	s.SetTable(tbl, "data.csv")
	require.True(t, s.Celebrate())
	s.Widgets.ChartKind = "Bar"

	cleaned, err := table.New([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)
	s.ReplaceTable(cleaned)

	assert.Equal(t, "Bar", s.Widgets.ChartKind)
	assert.Equal(t, 1, s.Table.Rows())
	assert.False(t, s.Celebrate(), "cleaning must not re-celebrate")
}

func TestClearTable(t *testing.T) {
	tbl, err := table.New([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	s := &Session{ID: "x"}
	s.SetTable(tbl, "data.csv")
	s.Widgets.ChartKind = "Bar"

	s.ClearTable()
	assert.False(t, s.Loaded())
	assert.Empty(t, s.Filename)
	assert.Equal(t, Widgets{}, s.Widgets)
	assert.False(t, s.Celebrate())
}

func TestDelete(t *testing.T) {
	st := NewStore()
	s := st.GetOrCreate("")
	st.Delete(s.ID)
	assert.Nil(t, st.Get(s.ID))
}
