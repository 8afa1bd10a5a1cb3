package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/regress"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flightdays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "n ~ wday * term", cfg.Model.Formula)
	assert.Equal(t, 13, cfg.Grid.Points)
	assert.Equal(t, -100.0, cfg.Residuals.Below)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())

	schedule, err := cfg.Schedule()
	require.NoError(t, err)
	assert.Equal(t, calendar.DefaultSchedule(), schedule)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
data:
  path: data/flights.csv
  filter: origin=JFK
model:
  formula: n ~ wday2 + ns(date, 5)
  family: robust
terms:
  policy: default
  default_label: other
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data/flights.csv", cfg.Data.Path)
	assert.Equal(t, "year", cfg.Data.YearColumn, "unset keys keep defaults")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	opts, err := cfg.ModelOptions()
	require.NoError(t, err)
	assert.Equal(t, regress.Robust, opts.Family)
	assert.Equal(t, 20, opts.MaxIter)

	f, err := cfg.Formula()
	require.NoError(t, err)
	assert.Equal(t, 5, f.SplineDF)

	fo, err := cfg.FlightsOptions()
	require.NoError(t, err)
	require.NotNil(t, fo.Filter)
	assert.Equal(t, "JFK", fo.Filter.Value)

	schedule, err := cfg.Schedule()
	require.NoError(t, err)
	assert.Equal(t, calendar.Default, schedule.Policy)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "model:\n  family: robust\ngrid:\n  points: 50\n")
	t.Setenv("FLIGHTDAYS_MODEL_FAMILY", "ols")
	t.Setenv("FLIGHTDAYS_MODEL_MAX_ITER", "40")
	t.Setenv("FLIGHTDAYS_TERMS_LABELS", "first,second,third")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ols", cfg.Model.Family)
	assert.Equal(t, 40, cfg.Model.MaxIter)
	assert.Equal(t, 50, cfg.Grid.Points)
	assert.Equal(t, []string{"first", "second", "third"}, cfg.Terms.Labels)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "model:\n  famly: ols\n"},
		{"bad formula", "model:\n  formula: n ~ month\n"},
		{"bad family", "model:\n  family: lasso\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"zero points", "grid:\n  points: 0\n"},
		{"thresholds crossed", "residuals:\n  below: 10\n  above: -10\n"},
		{"bad boundary", "terms:\n  boundaries: [2013-01-01, soon]\n  labels: [all]\n"},
		{"label count", "terms:\n  labels: [a, b]\n"},
		{"default without label", "terms:\n  policy: default\n"},
		{"bad location", "data:\n  location: Mars/Olympus\n"},
		{"bad filter", "data:\n  filter: origin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsYAMLNames(t *testing.T) {
	cfg := Default()
	cfg.Grid.Points = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid.points")
}
