package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/report"
	"github.com/sartorproj/flightdays/residual"
	"github.com/sartorproj/flightdays/timeseries"
)

// --- days ---

func (a *app) daysCmd() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Aggregate flights per day and label weekday and term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadDays()
			if err != nil {
				return err
			}
			if save != "" {
				if err := timeseries.SaveCSV(daily.Counts(records), save); err != nil {
					return fmt.Errorf("saving day table: %w", err)
				}
				a.logger.Info("day table saved", "path", save, "days", len(records))
			}
			return report.Days(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "write the day table (date,n) to this CSV file")
	return cmd
}

// --- fit ---

func (a *app) fitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fit",
		Short: "Fit the baseline model and print its summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadDays()
			if err != nil {
				return err
			}
			model, err := a.fit(records)
			if err != nil {
				return err
			}
			return report.Summary(cmd.OutOrStdout(), model.Summary())
		},
	}
}

// --- select ---

func (a *app) selectCmd() *cobra.Command {
	var criterion string
	var formulas []string

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Fit candidate formulas and rank them by an information criterion",
		Long: `Fit candidate formulas and rank them by an information criterion.

Without --candidate the usual ladder from "n ~ wday" to
"n ~ wday * term + ns(date, 5)" is tried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("criterion") {
				criterion = a.cfg.Model.Criterion
			}
			crit, err := regress.ParseCriterion(criterion)
			if err != nil {
				return err
			}
			var candidates []regress.Formula
			for _, s := range formulas {
				f, err := regress.ParseFormula(s)
				if err != nil {
					return err
				}
				candidates = append(candidates, f)
			}
			opts, err := a.cfg.ModelOptions()
			if err != nil {
				return err
			}

			records, err := a.loadDays()
			if err != nil {
				return err
			}
			sel, err := regress.Select(daily.Observations(records), candidates, opts, crit, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("formula selected",
				"formula", sel.Best.Formula.String(),
				"id", sel.Best.ID,
				"evaluated", sel.ModelsEvaluated)
			return report.Selection(cmd.OutOrStdout(), sel)
		},
	}
	cmd.Flags().StringVar(&criterion, "criterion", "", "aic, aicc or bic (overrides model.criterion)")
	cmd.Flags().StringArrayVar(&formulas, "candidate", nil, "candidate formula (repeatable)")
	return cmd
}

// --- residuals ---

func (a *app) residualsCmd() *cobra.Command {
	var by, save string
	var list bool

	cmd := &cobra.Command{
		Use:   "residuals",
		Short: "Print residual sums per group and residual diagnostics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := groupKey(by)
			if err != nil {
				return err
			}
			records, _, err := a.scored()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				if err := report.Days(out, records); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			if err := report.Groups(out, residual.GroupSums(records, key)); err != nil {
				return err
			}
			diag, err := residual.Diagnose(records)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := report.Diagnostics(out, diag); err != nil {
				return err
			}

			if save != "" {
				if err := timeseries.SaveCSV(daily.Residuals(records), save); err != nil {
					return fmt.Errorf("saving residuals: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&by, "by", "wday", "group residuals by wday, term or wday2")
	cmd.Flags().BoolVar(&list, "list", false, "also print every scored day")
	cmd.Flags().StringVar(&save, "save", "", "write the residual series (date,resid) to this CSV file")
	return cmd
}

func groupKey(by string) (residual.Key, error) {
	switch by {
	case "wday":
		return residual.ByWeekday, nil
	case "term":
		return residual.ByTerm, nil
	case "wday2":
		return residual.ByWeekdayTerm, nil
	}
	return nil, fmt.Errorf("unknown grouping %q: want wday, term or wday2", by)
}

// --- outliers ---

func (a *app) outliersCmd() *cobra.Command {
	var below, above float64

	cmd := &cobra.Command{
		Use:   "outliers",
		Short: "List days the model misses by more than the thresholds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			th := a.cfg.Thresholds()
			if cmd.Flags().Changed("below") {
				th.Below = below
			}
			if cmd.Flags().Changed("above") {
				th.Above = above
			}
			if th.Below >= th.Above {
				return fmt.Errorf("threshold below (%g) must be less than above (%g)", th.Below, th.Above)
			}

			records, _, err := a.scored()
			if err != nil {
				return err
			}
			outliers := residual.Outliers(records, th)
			a.logger.Debug("outliers found", "count", len(outliers), "below", th.Below, "above", th.Above)
			return report.Outliers(cmd.OutOrStdout(), outliers)
		},
	}
	cmd.Flags().Float64Var(&below, "below", 0, "flag residuals below this value (overrides residuals.below)")
	cmd.Flags().Float64Var(&above, "above", 0, "flag residuals above this value (overrides residuals.above)")
	return cmd
}

// --- grid ---

func (a *app) gridCmd() *cobra.Command {
	var points int
	var by string

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Predict over evenly spaced dates for plotting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.cfg.Grid.Points
			if cmd.Flags().Changed("points") {
				n = points
			}
			records, err := a.loadDays()
			if err != nil {
				return err
			}
			model, err := a.fit(records)
			if err != nil {
				return err
			}
			pts, err := a.gridPoints(records, model, by, n)
			if err != nil {
				return err
			}
			return report.Grid(cmd.OutOrStdout(), pts)
		},
	}
	cmd.Flags().IntVar(&points, "points", 0, "number of grid dates (overrides grid.points)")
	cmd.Flags().StringVar(&by, "by", "combos", "grid layout: combos or dates")
	return cmd
}

// --- report ---

func (a *app) reportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the whole pipeline and export an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, model, err := a.scored()
			if err != nil {
				return err
			}
			pts, err := a.gridPoints(records, model, "combos", a.cfg.Grid.Points)
			if err != nil {
				return err
			}

			wb := report.Workbook{
				Days:     records,
				Summary:  model.Summary(),
				Outliers: residual.Outliers(records, a.cfg.Thresholds()),
				Grid:     pts,
			}
			if err := report.WriteWorkbook(out, wb); err != nil {
				return fmt.Errorf("writing workbook: %w", err)
			}
			a.logger.Info("report written", "path", out, "model", model.ID)

			w := cmd.OutOrStdout()
			if err := report.Summary(w, wb.Summary); err != nil {
				return err
			}
			fmt.Fprintf(w, "\n%d outliers; workbook written to %s\n", len(wb.Outliers), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "flightdays.xlsx", "workbook path")
	return cmd
}
