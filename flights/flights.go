// Package flights loads flight departures from a CSV table into event
// timestamps for daily aggregation.
package flights

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrMalformedDate is returned when a row's date fields are missing or unparsable.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMissingColumn is returned when the table lacks a required column.
	ErrMissingColumn = errors.New("missing column")
)

// rowColumn numbers the rows of the file before filtering, so errors can
// name the original row.
const rowColumn = "__row"

// Filter keeps only rows whose Column equals Value.
type Filter struct {
	Column string
	Value  string
}

// ParseFilter parses "column=value". An empty string is no filter.
func ParseFilter(s string) (*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	col, val, ok := strings.Cut(s, "=")
	col = strings.TrimSpace(col)
	if !ok || col == "" {
		return nil, fmt.Errorf("filter %q: want column=value", s)
	}
	return &Filter{Column: col, Value: strings.TrimSpace(val)}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.Column + "=" + f.Value
}

// Options controls how dates are read from the table.
type Options struct {
	// Date parts, used when all three columns are present.
	YearColumn  string
	MonthColumn string
	DayColumn   string

	// Datetime column, used otherwise.
	TimeColumn  string
	TimeLayouts []string

	// Location of the returned timestamps, and of datetimes without a zone.
	Location *time.Location

	Filter *Filter
}

// DefaultOptions matches the nycflights13 export.
func DefaultOptions() Options {
	return Options{
		YearColumn:  "year",
		MonthColumn: "month",
		DayColumn:   "day",
		TimeColumn:  "time_hour",
		TimeLayouts: []string{time.DateTime, time.RFC3339},
		Location:    time.UTC,
	}
}

// Load reads the departures of a flights CSV file.
func Load(path string, opts Options) ([]time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadReader(f, opts)
}

// LoadReader reads departures from CSV. Any row with a missing or malformed
// date fails the load; the error names the row (header is row 1).
func LoadReader(r io.Reader, opts Options) ([]time.Time, error) {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if len(opts.TimeLayouts) == 0 {
		opts.TimeLayouts = DefaultOptions().TimeLayouts
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("reading flights table: %w", df.Err)
	}

	rows := make([]int, df.Nrow())
	for i := range rows {
		rows[i] = i + 2
	}
	df = df.Mutate(series.New(rows, series.Int, rowColumn))

	if opts.Filter != nil {
		if !hasColumn(df, opts.Filter.Column) {
			return nil, fmt.Errorf("%w: filter column %q", ErrMissingColumn, opts.Filter.Column)
		}
		df = df.Filter(dataframe.F{
			Colname:    opts.Filter.Column,
			Comparator: series.Eq,
			Comparando: opts.Filter.Value,
		})
		if df.Err != nil {
			return nil, fmt.Errorf("filtering %s: %w", opts.Filter, df.Err)
		}
	}

	switch {
	case hasColumn(df, opts.YearColumn) && hasColumn(df, opts.MonthColumn) && hasColumn(df, opts.DayColumn):
		return fromParts(df, opts)
	case hasColumn(df, opts.TimeColumn):
		return fromDatetime(df, opts)
	}
	return nil, fmt.Errorf("%w: need %s/%s/%s or %s", ErrMissingColumn,
		opts.YearColumn, opts.MonthColumn, opts.DayColumn, opts.TimeColumn)
}

func fromParts(df dataframe.DataFrame, opts Options) ([]time.Time, error) {
	years, months, days := df.Col(opts.YearColumn), df.Col(opts.MonthColumn), df.Col(opts.DayColumn)
	rows := df.Col(rowColumn)

	events := make([]time.Time, df.Nrow())
	for i := range events {
		y, errY := intAt(years, i)
		m, errM := intAt(months, i)
		d, errD := intAt(days, i)
		if err := errors.Join(errY, errM, errD); err != nil {
			return nil, fmt.Errorf("row %d: %w: %v", rowAt(rows, i), ErrMalformedDate, err)
		}

		t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, opts.Location)
		if t.Year() != y || t.Month() != time.Month(m) || t.Day() != d {
			return nil, fmt.Errorf("row %d: %w: %04d-%02d-%02d", rowAt(rows, i), ErrMalformedDate, y, m, d)
		}
		events[i] = t
	}
	return events, nil
}

func fromDatetime(df dataframe.DataFrame, opts Options) ([]time.Time, error) {
	col := df.Col(opts.TimeColumn)
	rows := df.Col(rowColumn)

	events := make([]time.Time, df.Nrow())
	for i := range events {
		e := col.Elem(i)
		if e.IsNA() {
			return nil, fmt.Errorf("row %d: %w: %s is missing", rowAt(rows, i), ErrMalformedDate, opts.TimeColumn)
		}
		t, err := parseTime(strings.TrimSpace(e.String()), opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w %q", rowAt(rows, i), ErrMalformedDate, e.String())
		}
		events[i] = t.In(opts.Location)
	}
	return events, nil
}

func parseTime(s string, opts Options) (time.Time, error) {
	var err error
	for _, layout := range opts.TimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, opts.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func intAt(s series.Series, i int) (int, error) {
	e := s.Elem(i)
	if e.IsNA() {
		return 0, fmt.Errorf("%s is missing", s.Name)
	}
	v, err := strconv.Atoi(strings.TrimSpace(e.String()))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer", s.Name, e.String())
	}
	return v, nil
}

func rowAt(rows series.Series, i int) int {
	n, err := rows.Elem(i).Int()
	if err != nil {
		return i + 2
	}
	return n
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	if name == "" {
		return false
	}
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
