// Command flightdays aggregates flights per day, fits a baseline model of the
// daily counts and reports what the model leaves unexplained.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sartorproj/flightdays/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	configPath string
	logLevel   string
	dataPath   string
	daysPath   string
	filter     string
	formula    string
	family     string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "flightdays",
		Short:         "Daily flight counts, baseline models and their residuals",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Aggregate flights per day, fit a weekday/term baseline and inspect residuals.

Examples:
  flightdays days --data flights.csv --save daily.csv
  flightdays fit --formula "n ~ wday * term + ns(date, 5)" --family robust
  flightdays select --criterion bic
  flightdays outliers --filter origin=JFK
  flightdays report --out report.xlsx`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.dataPath, "data", "", "flights CSV (overrides data.path)")
	flags.StringVar(&a.daysPath, "days", "", "day table CSV with date,n columns, instead of a flights CSV")
	flags.StringVar(&a.filter, "filter", "", "keep flights where column=value (overrides data.filter)")
	flags.StringVar(&a.formula, "formula", "", "model formula (overrides model.formula)")
	flags.StringVar(&a.family, "family", "", "model family: ols or robust (overrides model.family)")

	root.AddCommand(
		a.daysCmd(),
		a.fitCmd(),
		a.selectCmd(),
		a.residualsCmd(),
		a.outliersCmd(),
		a.gridCmd(),
		a.reportCmd(),
	)
	return root
}

// setup loads the configuration, applies flag overrides and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	overrides := []struct {
		flag  string
		value string
		field *string
	}{
		{"log-level", a.logLevel, &cfg.Logging.Level},
		{"data", a.dataPath, &cfg.Data.Path},
		{"filter", a.filter, &cfg.Data.Filter},
		{"formula", a.formula, &cfg.Model.Formula},
		{"family", a.family, &cfg.Model.Family},
	}
	changed := false
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.field = o.value
			changed = true
		}
	}
	if changed {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(a.logger)
	return nil
}
