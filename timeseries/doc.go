// Package timeseries provides the daily series type used by the analysis steps.
//
// A Series pairs calendar days with values: flights per day, model
// predictions, or residuals. Statistical diagnostics in the stats package
// operate on it.
//
// # Creating a Series
//
//	counts := timeseries.NewDaily(start, []float64{842, 943, 914, 915})
//
// # Summary Statistics
//
//	mean := series.Mean()
//	std := series.Std()
//	median := series.Median()
//	weekly := series.MovingAverage(7)
//
// # Day Tables
//
// Day tables are two-column CSV files with a header:
//
//	date,n
//	2013-01-01,842
//	2013-01-02,943
//
// Load and save them with LoadCSV and SaveCSV:
//
//	series, err := timeseries.LoadCSV("daily.csv", nil)
//	err = timeseries.SaveCSV(series, "daily.csv")
//
// A row with a malformed date fails the load with ErrMalformedDate.
package timeseries
