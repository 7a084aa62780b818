package tabular

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"growthlens/domain/table"
	"growthlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	f, ok := FormatFor("data.csv")
	assert.True(t, ok)
	assert.Equal(t, FormatCSV, f)

	f, ok = FormatFor("Data.XLSX")
	assert.True(t, ok)
	assert.Equal(t, FormatXLSX, f)

	_, ok = FormatFor("data.parquet")
	assert.False(t, ok)
}

func TestReadCSV(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n1,x\n2,y\n"), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())

	col, _ := tbl.Column("a")
	assert.Equal(t, []string{"1", "2"}, col)
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n"), "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())
}

func TestReadFailuresAreLoadFailures(t *testing.T) {
	_, err := Read(strings.NewReader("garbage"), "data.pdf")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailure, errors.GetCode(err))

	// Not a zip container, so not a valid xlsx.
	_, err = Read(strings.NewReader("definitely not a spreadsheet"), "data.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailure, errors.GetCode(err))

	// Ragged quoting is a CSV parse error.
	_, err = Read(strings.NewReader("a,b\n\"unterminated\n"), "data.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailure, errors.GetCode(err))

	_, err = Read(strings.NewReader(""), "data.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailure, errors.GetCode(err))
}

func TestWriteCSVExact(t *testing.T) {
	tbl, err := table.New([]string{"a", "b"}, [][]string{{"1", "3"}, {"2", "4"}})
	require.NoError(t, err)

	data, err := WriteCSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,3\n2,4\n", string(data))
}

func TestCSVRoundTrip(t *testing.T) {
	input := "name,score,note\nalice,1.5,ok\nbob,2,\ncara,-3e2,fine\n"
	tbl, err := Read(strings.NewReader(input), "scores.csv")
	require.NoError(t, err)

	out, err := WriteCSV(tbl)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestCSVRoundTripKeepsCellPadding(t *testing.T) {
	input := "a,b\n 1 ,x y \n2,  z\n"
	tbl, err := Read(strings.NewReader(input), "padded.csv")
	require.NoError(t, err)

	// Padding is stored, not stripped.
	col, _ := tbl.Column("a")
	assert.Equal(t, []string{" 1 ", "2"}, col)
	col, _ = tbl.Column("b")
	assert.Equal(t, []string{"x y ", "  z"}, col)

	// Export and re-read yields the identical cell values. The writer
	// may add RFC 4180 quoting around leading-space fields, so the
	// comparison is on values, not raw bytes.
	out, err := WriteCSV(tbl)
	require.NoError(t, err)
	back, err := Read(bytes.NewReader(out), "padded.csv")
	require.NoError(t, err)
	require.Equal(t, tbl.Rows(), back.Rows())
	for i := 0; i < tbl.Rows(); i++ {
		assert.Equal(t, tbl.Row(i), back.Row(i))
	}

	// Fields without leading spaces come back byte-identical.
	assert.Contains(t, string(out), "x y \n")
}

func TestXLSXRoundTrip(t *testing.T) {
	tbl, err := table.New([]string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)

	data, err := WriteXLSX(tbl)
	require.NoError(t, err)

	back, err := Read(bytes.NewReader(data), "export.xlsx")
	require.NoError(t, err)
	assert.Equal(t, tbl.Headers(), back.Headers())
	assert.Equal(t, tbl.Rows(), back.Rows())
	for i := 0; i < tbl.Rows(); i++ {
		assert.Equal(t, tbl.Row(i), back.Row(i))
	}
}

func TestExportArtifact(t *testing.T) {
	tbl, err := table.New([]string{"a"}, [][]string{{"1"}})
	require.NoError(t, err)

	art, err := Export(tbl, FormatCSV, "mydata")
	require.NoError(t, err)
	assert.Equal(t, "mydata.csv", art.Filename)
	assert.Equal(t, MediaTypeCSV, art.MediaType)

	art, err = Export(tbl, FormatXLSX, "mydata")
	require.NoError(t, err)
	assert.Equal(t, "mydata.xlsx", art.Filename)
	assert.Equal(t, MediaTypeXLSX, art.MediaType)

	_, err = Export(tbl, Format("parquet"), "mydata")
	assert.Error(t, err)
}

func TestDefaultBasenameEmbedsDate(t *testing.T) {
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "growth_data_2025-03-09", DefaultBasename(now))
}
