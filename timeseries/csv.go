package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedDate is returned when a row's date cannot be parsed.
var ErrMalformedDate = errors.New("malformed date")

// CSVOptions holds options for loading a day table.
type CSVOptions struct {
	DateColumn  string // Column name for dates (default: "date")
	ValueColumn string // Column name for values (default: "n")
	DateFormat  string // Date format (default: "2006-01-02")
	Delimiter   rune   // Field delimiter (default: ',')
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		DateColumn:  "date",
		ValueColumn: "n",
		DateFormat:  time.DateOnly,
		Delimiter:   ',',
	}
}

// LoadCSV loads a dated series from a CSV file with a header row.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVFromReader(file, opts)
}

// LoadCSVFromReader loads a dated series from an io.Reader.
// Blank rows and rows whose value is empty or NA are skipped. Any other row
// with an unparsable date fails the whole load.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	dateIdx, valueIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.Trim(h, "\"")) {
		case opts.DateColumn:
			dateIdx = i
		case opts.ValueColumn:
			valueIdx = i
		}
	}
	if dateIdx == -1 {
		return nil, fmt.Errorf("date column %q not found", opts.DateColumn)
	}
	if valueIdx == -1 {
		return nil, fmt.Errorf("value column %q not found", opts.ValueColumn)
	}

	var values []float64
	var dates []time.Time

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		dateStr := strings.TrimSpace(record[dateIdx])
		valStr := strings.TrimSpace(record[valueIdx])
		if dateStr == "" && missing(valStr) {
			continue
		}
		ts, err := time.Parse(opts.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w %q", row, ErrMalformedDate, dateStr)
		}
		if missing(valStr) {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid value %q: %w", row, valStr, err)
		}

		values = append(values, val)
		dates = append(dates, ts)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	return &Series{
		Dates:  dates,
		Values: values,
		Name:   opts.ValueColumn,
	}, nil
}

func missing(value string) bool {
	switch value {
	case "", "NA", "NaN", "null":
		return true
	}
	return false
}

// SaveCSV saves a dated series to a CSV file with a "date,<name>" header.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteCSV(series, file); err != nil {
		return err
	}
	return file.Close()
}

// WriteCSV writes a dated series as CSV.
func WriteCSV(series *Series, w io.Writer) error {
	if !series.HasDates() && series.Len() > 0 {
		return errors.New("series has no dates")
	}

	name := series.Name
	if name == "" {
		name = "y"
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", name}); err != nil {
		return err
	}
	for i, v := range series.Values {
		row := []string{series.Dates[i].Format(time.DateOnly), strconv.FormatFloat(v, 'f', -1, 64)}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
