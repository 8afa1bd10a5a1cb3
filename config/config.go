// Package config loads the pipeline configuration: built-in defaults, then
// an optional YAML file, then FLIGHTDAYS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/flightdays/calendar"
	"github.com/sartorproj/flightdays/flights"
	"github.com/sartorproj/flightdays/regress"
	"github.com/sartorproj/flightdays/residual"
)

// EnvPrefix prefixes every environment override, e.g. FLIGHTDAYS_MODEL_FAMILY.
const EnvPrefix = "FLIGHTDAYS"

// Config is the complete pipeline configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Terms     TermsConfig     `yaml:"terms" envconfig:"TERMS"`
	Model     ModelConfig     `yaml:"model" envconfig:"MODEL"`
	Residuals ResidualsConfig `yaml:"residuals" envconfig:"RESIDUALS"`
	Grid      GridConfig      `yaml:"grid" envconfig:"GRID"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// DataConfig describes the flights table.
type DataConfig struct {
	Path        string   `yaml:"path" split_words:"true"`
	YearColumn  string   `yaml:"year_column" split_words:"true"`
	MonthColumn string   `yaml:"month_column" split_words:"true"`
	DayColumn   string   `yaml:"day_column" split_words:"true"`
	TimeColumn  string   `yaml:"time_column" split_words:"true"`
	TimeLayouts []string `yaml:"time_layouts" split_words:"true" validate:"min=1,dive,required"`
	Location    string   `yaml:"location" split_words:"true" validate:"required,timezone"`
	Filter      string   `yaml:"filter" split_words:"true" validate:"omitempty,contains=="`
}

// TermsConfig describes the term schedule.
type TermsConfig struct {
	Boundaries   []string `yaml:"boundaries" split_words:"true" validate:"min=2,dive,datetime=2006-01-02"`
	Labels       []string `yaml:"labels" split_words:"true" validate:"min=1,dive,required"`
	Policy       string   `yaml:"policy" split_words:"true" validate:"oneof=strict default"`
	DefaultLabel string   `yaml:"default_label" split_words:"true" validate:"required_if=Policy default"`
}

// ModelConfig selects the baseline model.
type ModelConfig struct {
	Formula   string  `yaml:"formula" split_words:"true" validate:"required,formula"`
	Family    string  `yaml:"family" split_words:"true" validate:"oneof=ols robust"`
	MaxIter   int     `yaml:"max_iter" split_words:"true" validate:"min=1"`
	Tolerance float64 `yaml:"tolerance" split_words:"true" validate:"gt=0"`
	HuberK    float64 `yaml:"huber_k" split_words:"true" validate:"gt=0"`
	Fallback  bool    `yaml:"fallback" split_words:"true"`
	Criterion string  `yaml:"criterion" split_words:"true" validate:"oneof=aic aicc bic"`
}

// ResidualsConfig bounds unremarkable residuals.
type ResidualsConfig struct {
	Below float64 `yaml:"below" split_words:"true" validate:"ltfield=Above"`
	Above float64 `yaml:"above" split_words:"true"`
}

// GridConfig sizes the prediction grid.
type GridConfig struct {
	Points int `yaml:"points" split_words:"true" validate:"min=1"`
}

// LoggingConfig sets the log level.
type LoggingConfig struct {
	Level string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
}

// Default returns the configuration of the 2013 analysis.
func Default() *Config {
	fo := flights.DefaultOptions()
	mo := regress.DefaultOptions()
	th := residual.DefaultThresholds()
	return &Config{
		Data: DataConfig{
			Path:        "flights.csv",
			YearColumn:  fo.YearColumn,
			MonthColumn: fo.MonthColumn,
			DayColumn:   fo.DayColumn,
			TimeColumn:  fo.TimeColumn,
			TimeLayouts: fo.TimeLayouts,
			Location:    "UTC",
		},
		Terms: TermsConfig{
			Boundaries: []string{"2013-01-01", "2013-06-05", "2013-08-25", "2014-01-01"},
			Labels:     []string{"spring", "summer", "fall"},
			Policy:     calendar.Strict.String(),
		},
		Model: ModelConfig{
			Formula:   "n ~ wday * term",
			Family:    mo.Family.String(),
			MaxIter:   mo.MaxIter,
			Tolerance: mo.Tolerance,
			HuberK:    mo.HuberK,
			Fallback:  true,
			Criterion: string(regress.AICc),
		},
		Residuals: ResidualsConfig{Below: th.Below, Above: th.Above},
		Grid:      GridConfig{Points: 13},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load builds the configuration. An empty path skips the file; a named file
// that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("loading config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the keys present in the YAML file onto cfg.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, c)
}

// Validate checks field constraints and cross-field consistency.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.ActualTag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("formula", func(fl validator.FieldLevel) bool {
		_, err := regress.ParseFormula(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
	})
	return v
}

// Schedule builds the term schedule.
func (c *Config) Schedule() (*calendar.Schedule, error) {
	policy, err := calendar.ParsePolicy(c.Terms.Policy)
	if err != nil {
		return nil, err
	}
	boundaries := make([]time.Time, len(c.Terms.Boundaries))
	for i, b := range c.Terms.Boundaries {
		if boundaries[i], err = time.Parse(time.DateOnly, b); err != nil {
			return nil, fmt.Errorf("%w: boundary %q", calendar.ErrInvalidSchedule, b)
		}
	}
	return calendar.NewSchedule(boundaries, c.Terms.Labels, policy, c.Terms.DefaultLabel)
}

// FlightsOptions returns the loader options.
func (c *Config) FlightsOptions() (flights.Options, error) {
	loc, err := time.LoadLocation(c.Data.Location)
	if err != nil {
		return flights.Options{}, err
	}
	filter, err := flights.ParseFilter(c.Data.Filter)
	if err != nil {
		return flights.Options{}, err
	}
	return flights.Options{
		YearColumn:  c.Data.YearColumn,
		MonthColumn: c.Data.MonthColumn,
		DayColumn:   c.Data.DayColumn,
		TimeColumn:  c.Data.TimeColumn,
		TimeLayouts: c.Data.TimeLayouts,
		Location:    loc,
		Filter:      filter,
	}, nil
}

// Formula parses the model formula.
func (c *Config) Formula() (regress.Formula, error) {
	return regress.ParseFormula(c.Model.Formula)
}

// ModelOptions returns the fitting options.
func (c *Config) ModelOptions() (regress.Options, error) {
	family, err := regress.ParseFamily(c.Model.Family)
	if err != nil {
		return regress.Options{}, err
	}
	return regress.Options{
		Family:    family,
		MaxIter:   c.Model.MaxIter,
		Tolerance: c.Model.Tolerance,
		HuberK:    c.Model.HuberK,
	}, nil
}

// Thresholds returns the outlier thresholds.
func (c *Config) Thresholds() residual.Thresholds {
	return residual.Thresholds{Below: c.Residuals.Below, Above: c.Residuals.Above}
}

// LogLevel returns the slog level.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
