package main

import (
	"fmt"
	"time"

	"github.com/sartorproj/flightdays/daily"
	"github.com/sartorproj/flightdays/flights"
	"github.com/sartorproj/flightdays/grid"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/residual"
	"github.com/sartorproj/flightdays/timeseries"
)

// loadDays reads the input and returns annotated day records.
func (a *app) loadDays() ([]daily.Record, error) {
	var records []daily.Record
	if a.daysPath != "" {
		s, err := timeseries.LoadCSV(a.daysPath, nil)
		if err != nil {
			return nil, fmt.Errorf("loading day table: %w", err)
		}
		if records, err = daily.FromSeries(s); err != nil {
			return nil, fmt.Errorf("loading day table: %w", err)
		}
		a.logger.Debug("loaded day table", "path", a.daysPath, "days", len(records))
	} else {
		opts, err := a.cfg.FlightsOptions()
		if err != nil {
			return nil, err
		}
		events, err := flights.Load(a.cfg.Data.Path, opts)
		if err != nil {
			return nil, fmt.Errorf("loading flights: %w", err)
		}
		records = daily.Aggregate(events)
		a.logger.Debug("aggregated flights",
			"path", a.cfg.Data.Path,
			"filter", opts.Filter.String(),
			"flights", len(events),
			"days", len(records))
	}

	schedule, err := a.cfg.Schedule()
	if err != nil {
		return nil, err
	}
	return daily.Annotate(records, schedule)
}

// fit fits the configured model to the records.
func (a *app) fit(records []daily.Record) (*regress.Model, error) {
	formula, err := a.cfg.Formula()
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.ModelOptions()
	if err != nil {
		return nil, err
	}

	obs := daily.Observations(records)
	var model *regress.Model
	if a.cfg.Model.Fallback {
		model, err = regress.FitWithFallback(obs, formula, opts, a.logger)
	} else {
		model, err = regress.Fit(obs, formula, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("fitting %s: %w", formula, err)
	}

	a.logger.Info("model fitted",
		"id", model.ID,
		"formula", formula.String(),
		"family", model.Family.String(),
		"days", len(obs))
	return model, nil
}

// scored loads, fits and scores the days.
func (a *app) scored() ([]daily.Record, *regress.Model, error) {
	records, err := a.loadDays()
	if err != nil {
		return nil, nil, err
	}
	model, err := a.fit(records)
	if err != nil {
		return nil, nil, err
	}
	records, err = residual.Compute(records, model)
	if err != nil {
		return nil, nil, err
	}
	return records, model, nil
}

// gridPoints predicts the model over the configured grid. By "combos" every
// training weekday/term pair is crossed with the date axis; by "dates" each
// grid date carries its own labels.
func (a *app) gridPoints(records []daily.Record, model *regress.Model, by string, n int) ([]grid.Point, error) {
	start, end := model.Domain()

	var inputs []regress.Features
	var err error
	switch by {
	case "combos":
		inputs, err = grid.Cross(daily.Combos(records), start, end, n)
	case "dates":
		schedule, serr := a.cfg.Schedule()
		if serr != nil {
			return nil, serr
		}
		inputs, err = grid.Dates(schedule, start, end, n)
	default:
		return nil, fmt.Errorf("unknown grid layout %q: want combos or dates", by)
	}
	if err != nil {
		return nil, err
	}

	points, err := grid.Predict(model, inputs)
	if err != nil {
		return nil, err
	}

	missing := 0
	for _, p := range points {
		if p.Missing {
			missing++
		}
	}
	if missing > 0 {
		a.logger.Warn("grid points without prediction", "missing", missing, "points", len(points))
	}
	a.logger.Debug("grid predicted",
		"from", start.Format(time.DateOnly),
		"to", end.Format(time.DateOnly),
		"points", len(points))
	return points, nil
}
