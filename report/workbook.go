package report

import (
	"fmt"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/grid"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/residual"
)

// Sheet names.
const (
	DaysSheet     = "days"
	ModelSheet    = "model"
	OutliersSheet = "outliers"
	GridSheet     = "grid"
)

// Workbook collects what WriteWorkbook exports. Nil or empty parts are
// left out.
type Workbook struct {
	Days     []daily.Record
	Summary  *regress.Summary
	Outliers []residual.Outlier
	Grid     []grid.Point
}

// WriteWorkbook saves the workbook as an XLSX file, one sheet per part.
func WriteWorkbook(path string, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	var sheets []string
	add := func(name string, rows [][]interface{}) error {
		if len(sheets) == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		sheets = append(sheets, name)

		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, i+1, err)
			}
		}
		return nil
	}

	if len(wb.Days) > 0 {
		if err := add(DaysSheet, daysRows(wb.Days)); err != nil {
			return err
		}
	}
	if wb.Summary != nil {
		if err := add(ModelSheet, modelRows(wb.Summary)); err != nil {
			return err
		}
	}
	if len(wb.Outliers) > 0 {
		if err := add(OutliersSheet, outlierRows(wb.Outliers)); err != nil {
			return err
		}
	}
	if len(wb.Grid) > 0 {
		if err := add(GridSheet, gridRows(wb.Grid)); err != nil {
			return err
		}
	}
	if len(sheets) == 0 {
		return fmt.Errorf("nothing to write to %s", path)
	}

	return f.SaveAs(path)
}

// cellValue leaves NaN cells empty.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func daysRows(records []daily.Record) [][]interface{} {
	rows := [][]interface{}{{"date", "wday", "term", "n", "pred", "resid"}}
	for _, r := range records {
		row := []interface{}{r.Date.Format(time.DateOnly), r.Weekday, r.Term, r.Count, nil, nil}
		if r.Scored {
			row[4], row[5] = cellValue(r.Predicted), cellValue(r.Residual)
		}
		rows = append(rows, row)
	}
	return rows
}

func modelRows(s *regress.Summary) [][]interface{} {
	rows := [][]interface{}{
		{"id", s.ID},
		{"formula", s.Formula},
		{"family", s.Family},
		{"observations", s.NObs},
		{"rank", s.Rank},
		{"iterations", s.Iterations},
		{"sigma", cellValue(s.Sigma)},
		{"r_squared", cellValue(s.RSquared)},
		{"log_lik", cellValue(s.LogLik)},
		{"aic", cellValue(s.AIC)},
		{"aicc", cellValue(s.AICc)},
		{"bic", cellValue(s.BIC)},
		{},
		{"term", "estimate"},
	}
	for _, c := range s.Coefficients {
		var est interface{} = "aliased"
		if !c.Aliased {
			est = cellValue(c.Estimate)
		}
		rows = append(rows, []interface{}{c.Name, est})
	}
	return rows
}

func outlierRows(outliers []residual.Outlier) [][]interface{} {
	rows := [][]interface{}{{"date", "wday", "term", "n", "pred", "resid", "holiday"}}
	for _, o := range outliers {
		rows = append(rows, []interface{}{
			o.Date.Format(time.DateOnly), o.Weekday, o.Term, o.Count,
			cellValue(o.Predicted), cellValue(o.Residual), o.Holiday,
		})
	}
	return rows
}

func gridRows(points []grid.Point) [][]interface{} {
	rows := [][]interface{}{{"date", "wday", "term", "pred", "missing", "extrapolated"}}
	for _, p := range points {
		rows = append(rows, []interface{}{
			p.Date.Format(time.DateOnly), p.Weekday, p.Term,
			cellValue(p.Predicted), p.Missing, p.Extrapolated,
		})
	}
	return rows
}
