package timeseries

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `date,n
2013-01-01,842
2013-01-02,943
2013-01-03,914`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{842, 943, 914}, series.Values)
	assert.Equal(t, time.Date(2013, time.January, 3, 0, 0, 0, 0, time.UTC), series.Dates[2])
	assert.Equal(t, "n", series.Name)
}

func TestLoadCSVSkipsNAValues(t *testing.T) {
	csvData := `date,n
2013-01-01,842
2013-01-02,NA
2013-01-03,914`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
}

func TestLoadCSVMalformedDate(t *testing.T) {
	csvData := `date,n
2013-01-01,842
2013-13-45,943`

	_, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	assert.ErrorIs(t, err, ErrMalformedDate)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCSVCustomColumns(t *testing.T) {
	csvData := `day;flights;other
2013-01-01;10;x
2013-01-02;11;y`

	opts := DefaultCSVOptions()
	opts.DateColumn = "day"
	opts.ValueColumn = "flights"
	opts.Delimiter = ';'

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 11}, series.Values)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("day,n\n2013-01-01,1\n"), nil)
	assert.Error(t, err)
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()

	assert.Equal(t, "date", opts.DateColumn)
	assert.Equal(t, "n", opts.ValueColumn)
	assert.Equal(t, "2006-01-02", opts.DateFormat)
	assert.Equal(t, ',', opts.Delimiter)
}

func TestSaveAndLoadCSV(t *testing.T) {
	s := NewDaily(jan1, []float64{842, 943.5})
	s.Name = "n"
	path := filepath.Join(t.TempDir(), "daily.csv")

	require.NoError(t, SaveCSV(s, path))

	loaded, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, s.Values, loaded.Values)
	assert.Equal(t, s.Dates, loaded.Dates)
}

func TestWriteCSVRequiresDates(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(New([]float64{1}), &buf))
}

func TestLoadCSVMalformedDateOnMissingValue(t *testing.T) {
	csvData := `date,n
2013-13-45,NA
,
2013-01-02,5`

	_, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	assert.ErrorIs(t, err, ErrMalformedDate)
	assert.Contains(t, err.Error(), "row 2")
}

func TestLoadCSVSkipsBlankRows(t *testing.T) {
	series, err := LoadCSVFromReader(strings.NewReader("date,n\n,\n2013-01-02,5\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, series.Values)
}

func TestWriteCSVQuotesName(t *testing.T) {
	s := NewDaily(jan1, []float64{842})
	s.Name = "flights, JFK"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(s, &buf))
	assert.Equal(t, "date,\"flights, JFK\"\n2013-01-01,842\n", buf.String())

	opts := DefaultCSVOptions()
	opts.ValueColumn = "flights, JFK"
	loaded, err := LoadCSVFromReader(&buf, opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{842}, loaded.Values)
}
