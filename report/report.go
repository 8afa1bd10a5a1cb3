// Package report renders pipeline results as console tables and as an XLSX
// workbook.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/grid"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/residual"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// Days writes one line per day. Prediction columns are shown once any day
// has been scored.
func Days(w io.Writer, records []daily.Record) error {
	scored := false
	for _, r := range records {
		scored = scored || r.Scored
	}

	tw := newTable(w)
	if scored {
		fmt.Fprintln(tw, "date\twday\tterm\tn\tpred\tresid\t")
	} else {
		fmt.Fprintln(tw, "date\twday\tterm\tn\t")
	}
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t", r.Date.Format(time.DateOnly), r.Weekday, r.Term, r.Count)
		if scored {
			if r.Scored {
				fmt.Fprintf(tw, "%s\t%s\t", num(r.Predicted, 1), num(r.Residual, 1))
			} else {
				fmt.Fprint(tw, "\t\t")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Groups writes residual group sums.
func Groups(w io.Writer, groups []residual.GroupSum) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "group\tdays\tsum\tmean\t")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n", g.Key, g.Count, num(g.Sum, 3), num(g.Mean(), 3))
	}
	return tw.Flush()
}

// Outliers writes the outlying days with their holiday, if any.
func Outliers(w io.Writer, outliers []residual.Outlier) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "date\twday\tn\tpred\tresid\tholiday\t")
	for _, o := range outliers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t\n",
			o.Date.Format(time.DateOnly), o.Weekday, o.Count,
			num(o.Predicted, 1), num(o.Residual, 1), o.Holiday)
	}
	return tw.Flush()
}

// Summary writes fit statistics followed by the coefficient table.
func Summary(w io.Writer, s *regress.Summary) error {
	fmt.Fprintf(w, "model %s\n", s.ID)
	fmt.Fprintf(w, "formula: %s (%s", s.Formula, s.Family)
	if s.Iterations > 0 {
		fmt.Fprintf(w, ", %d iterations", s.Iterations)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "observations: %d  rank: %d  sigma: %s  R²: %s\n",
		s.NObs, s.Rank, num(s.Sigma, 3), num(s.RSquared, 4))
	fmt.Fprintf(w, "logLik: %s  AIC: %s  BIC: %s\n\n",
		num(s.LogLik, 2), num(s.AIC, 2), num(s.BIC, 2))

	tw := newTable(w)
	fmt.Fprintln(tw, "term\testimate\t")
	for _, c := range s.Coefficients {
		est := num(c.Estimate, 4)
		if c.Aliased {
			est = "aliased"
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Name, est)
	}
	return tw.Flush()
}

// Grid writes grid predictions, flagging missing and extrapolated points.
func Grid(w io.Writer, points []grid.Point) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "date\twday\tterm\tpred\tnote\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			p.Date.Format(time.DateOnly), p.Weekday, p.Term, num(p.Predicted, 1), note(p))
	}
	return tw.Flush()
}

func note(p grid.Point) string {
	switch {
	case p.Missing:
		return "missing"
	case p.Extrapolated:
		return "extrapolated"
	}
	return ""
}

// Diagnostics writes the residual diagnostics.
func Diagnostics(w io.Writer, d *residual.Diagnostics) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "days\t%d\t\n", d.N)
	fmt.Fprintf(tw, "mean\t%s\t\n", num(d.Mean, 3))
	fmt.Fprintf(tw, "sd\t%s\t\n", num(d.Std, 3))
	fmt.Fprintf(tw, "median\t%s\t\n", num(d.Median, 3))
	fmt.Fprintf(tw, "min\t%s\t\n", num(d.Min, 3))
	fmt.Fprintf(tw, "max\t%s\t\n", num(d.Max, 3))
	fmt.Fprintf(tw, "7-day mean min\t%s\t\n", num(d.SmoothedMin, 3))
	fmt.Fprintf(tw, "7-day mean max\t%s\t\n", num(d.SmoothedMax, 3))
	if d.LjungBox != nil {
		fmt.Fprintf(tw, "ljung-box Q(%d)\t%s\t\n", d.LjungBox.Lags, num(d.LjungBox.Statistic, 2))
		fmt.Fprintf(tw, "ljung-box p\t%s\t\n", num(d.LjungBox.PValue, 4))
	}
	fmt.Fprintf(tw, "durbin-watson\t%s\t\n", num(d.DurbinWatson, 3))
	if len(d.SignificantLags) > 0 {
		fmt.Fprintf(tw, "significant lags\t%v\t\n", d.SignificantLags)
	}
	for i, v := range d.WeeklyACF {
		fmt.Fprintf(tw, "acf lag %d\t%s\t\n", 7*(i+1), num(v, 3))
	}
	fmt.Fprintf(tw, "weekly strength\t%s\t\n", num(d.WeeklyStrength, 3))
	return tw.Flush()
}

// Selection writes the ranked candidate formulas.
func Selection(w io.Writer, sel *regress.Selection) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "rank\tformula\tfamily\trank(X)\t%s\tR²\t\n", sel.Criterion)
	for i, c := range sel.Candidates {
		if c.Err != nil {
			fmt.Fprintf(tw, "-\t%s\t\t\tfailed\t\t\n", c.Formula)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t\n",
			i+1, c.Formula, c.Summary.Family, c.Summary.Rank,
			num(c.Criterion, 2), num(c.Summary.RSquared, 4))
	}
	return tw.Flush()
}
