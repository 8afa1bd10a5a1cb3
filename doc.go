// Package flightdays models daily flight counts with calendar features.
//
// Flightdays turns a table of departures into one record per day, labels each
// day with its weekday and term (school season), fits a baseline model of the
// daily counts and looks at what the model leaves unexplained. It follows the
// iterative model building workflow: fit the obvious pattern, study the
// residuals, add the feature that explains them, repeat.
//
// # Features
//
//   - Daily aggregation of flight departures (daily, flights)
//   - Weekday, term and holiday labels (calendar)
//   - Formula-driven least squares and Huber robust fits with natural splines (regress)
//   - Residual group sums, outlier listing and diagnostics (residual, stats)
//   - Evenly spaced prediction grids for plotting fitted curves (grid)
//   - Console tables and XLSX export (report)
//
// # Quick Start
//
// Aggregate and label the days:
//
//	events, _ := flights.Load("flights.csv", flights.DefaultOptions())
//	days, _ := daily.Annotate(daily.Aggregate(events), calendar.DefaultSchedule())
//
// Fit a baseline and compute residuals:
//
//	formula := regress.MustParseFormula("n ~ wday * term")
//	model, _ := regress.Fit(daily.Observations(days), formula, regress.DefaultOptions())
//	scored, _ := residual.Compute(days, model)
//
// Find the days the model misses:
//
//	for _, o := range residual.Outliers(scored, residual.DefaultThresholds()) {
//	    fmt.Println(o.Date.Format(time.DateOnly), o.Residual, o.Holiday)
//	}
//
// Predict over a grid for plotting:
//
//	start, end := model.Domain()
//	inputs, _ := grid.Cross(daily.Combos(days), start, end, 13)
//	points, _ := grid.Predict(model, inputs)
//
// # Command Line
//
// The flightdays command in cmd/flightdays wires the same steps as
// subcommands (days, fit, residuals, outliers, grid, report) configured by a
// YAML file and FLIGHTDAYS_* environment variables.
package flightdays
