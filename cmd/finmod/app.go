package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"corporate_valuation/pkg/config"
	"corporate_valuation/pkg/core/assumption"
	"corporate_valuation/pkg/core/ingest"
	"corporate_valuation/pkg/core/report"
	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/valuation"
	"corporate_valuation/pkg/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// marketCapRow is the row read from a --market-cap-file table.
const marketCapRow = "Market Cap"

var errNoRates = errors.New("rates required: pass --scenarios or all of --wacc, --short-term-growth and --long-term-growth")

type cliFlags struct {
	configPath string
	logLevel   string
	format     string
	scale      float64

	balanceSheet    string
	incomeStatement string
	cashFlow        string

	marketCap     float64
	marketCapFile string
	fcfFile       string

	scenarios       string
	scenario        string
	company         string
	wacc            float64
	shortTermGrowth float64
	longTermGrowth  float64
}

// app carries the state shared by every subcommand once the root has loaded
// configuration.
type app struct {
	flags  cliFlags
	cfg    *config.Config
	log    zerolog.Logger
	loader *ingest.Loader
	format report.Format
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fs := cmd.Flags()
	if fs.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if fs.Changed("format") {
		cfg.Output.Format = a.flags.format
	}
	if fs.Changed("scale") {
		cfg.Ingest.Scale = a.flags.scale
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.format, err = report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.NewWithWriter(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}, cmd.ErrOrStderr())
	a.loader = ingest.NewLoader(a.log, ingest.Options{Scale: cfg.Ingest.Scale})
	a.log.Debug().Str("command", cmd.Name()).Str("format", string(a.format)).Float64("scale", cfg.Ingest.Scale).Msg("configured")
	return nil
}

// load reads a statement file. An empty path is an error naming the flag.
func (a *app) load(path, flag string) (*table.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("--%s is required", flag)
	}
	t, err := a.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a.log.Info().Str("file", path).Int("rows", len(t.Labels())).Int("periods", len(t.Periods())).Msg("statement loaded")
	return t, nil
}

// loadOptional reads a statement file when a path was given.
func (a *app) loadOptional(path, flag string) (*table.Table, error) {
	if path == "" {
		return nil, nil
	}
	return a.load(path, flag)
}

// statements loads every statement that was supplied.
func (a *app) statements(cmd *cobra.Command) (valuation.Statements, error) {
	var (
		st  valuation.Statements
		err error
	)
	if st.BalanceSheet, err = a.loadOptional(a.flags.balanceSheet, "balance-sheet"); err != nil {
		return st, err
	}
	if st.IncomeStatement, err = a.loadOptional(a.flags.incomeStatement, "income-statement"); err != nil {
		return st, err
	}
	if st.CashFlow, err = a.loadOptional(a.flags.cashFlow, "cash-flow"); err != nil {
		return st, err
	}
	st.MarketCap, err = a.marketCapSeries(cmd, st.BalanceSheet)
	return st, err
}

// marketCapSeries reads --market-cap-file, or spreads a scalar --market-cap
// over the balance-sheet periods. Neither flag yields an empty series.
func (a *app) marketCapSeries(cmd *cobra.Command, bs *table.Table) (table.Series, error) {
	if a.flags.marketCapFile != "" {
		t, err := a.load(a.flags.marketCapFile, "market-cap-file")
		if err != nil {
			return table.Series{}, err
		}
		return t.Row(marketCapRow)
	}
	if !cmd.Flags().Changed("market-cap") || bs == nil {
		return table.Series{}, nil
	}
	periods := bs.Periods()
	values := make([]float64, len(periods))
	for i := range values {
		values[i] = a.flags.marketCap
	}
	return table.SeriesOf(periods, values), nil
}

// freeCashFlow reads --fcf-file or derives FCF from the income and cash flow
// statements.
func (a *app) freeCashFlow() (table.Series, error) {
	if a.flags.fcfFile != "" {
		t, err := a.load(a.flags.fcfFile, "fcf-file")
		if err != nil {
			return table.Series{}, err
		}
		return t.Row(valuation.MetricFreeCashFlow)
	}
	income, err := a.load(a.flags.incomeStatement, "income-statement")
	if err != nil {
		return table.Series{}, err
	}
	cashFlow, err := a.load(a.flags.cashFlow, "cash-flow")
	if err != nil {
		return table.Series{}, err
	}
	return valuation.FreeCashFlowFromStatements(income, cashFlow)
}

// assumptions resolves the valuation rates and names their source.
func (a *app) assumptions(cmd *cobra.Command) (valuation.Assumptions, string, error) {
	fs := cmd.Flags()
	var o assumption.Overrides
	if fs.Changed("wacc") {
		o.WACC = &a.flags.wacc
	}
	if fs.Changed("short-term-growth") {
		o.ShortTermGrowth = &a.flags.shortTermGrowth
	}
	if fs.Changed("long-term-growth") {
		o.LongTermGrowth = &a.flags.longTermGrowth
	}

	if a.flags.scenarios == "" {
		if !o.Complete() {
			return valuation.Assumptions{}, "", errNoRates
		}
		return o.Apply(valuation.Assumptions{}), "flags", nil
	}

	set, err := assumption.Load(a.flags.scenarios)
	if err != nil {
		return valuation.Assumptions{}, "", err
	}
	base, err := set.Resolve(a.flags.scenario)
	if err != nil {
		return valuation.Assumptions{}, "", err
	}
	if a.flags.company == "" {
		a.flags.company = set.Company
	}
	resolved := o.Apply(base)
	a.log.Info().
		Str("scenario", a.flags.scenario).
		Float64("wacc", resolved.WACC).
		Float64("short_term_growth", resolved.ShortTermGrowth).
		Float64("long_term_growth", resolved.LongTermGrowth).
		Msg("assumptions resolved")
	return resolved, a.flags.scenario, nil
}

func (a *app) addRateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&a.flags.scenarios, "scenarios", "", "scenario YAML file")
	f.StringVar(&a.flags.scenario, "scenario", "base", "scenario name within --scenarios")
	f.StringVar(&a.flags.company, "company", "", "company name for the report (default: from the scenario file)")
	f.Float64Var(&a.flags.wacc, "wacc", 0, "weighted average cost of capital, e.g. 0.1")
	f.Float64Var(&a.flags.shortTermGrowth, "short-term-growth", 0, "growth rate over the forecast years")
	f.Float64Var(&a.flags.longTermGrowth, "long-term-growth", 0, "perpetual growth rate for the terminal value")
}

func (a *app) addFCFFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.flags.fcfFile, "fcf-file", "", "table with a \""+valuation.MetricFreeCashFlow+"\" row, used instead of the statements")
}

func (a *app) addMarketCapFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&a.flags.marketCap, "market-cap", 0, "market capitalization applied to every period")
	f.StringVar(&a.flags.marketCapFile, "market-cap-file", "", "table with a \""+marketCapRow+"\" row per period")
}

type seriesPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type seriesDocument struct {
	Metric string        `json:"metric"`
	Values []seriesPoint `json:"values"`
}

// writeSeries prints metric series in the configured format.
func (a *app) writeSeries(w io.Writer, title string, columns ...report.NamedSeries) error {
	if a.format == report.FormatJSON {
		docs := make([]seriesDocument, 0, len(columns))
		for _, c := range columns {
			doc := seriesDocument{Metric: c.Name, Values: make([]seriesPoint, 0, c.Series.Len())}
			for _, p := range c.Series.Points() {
				doc.Values = append(doc.Values, seriesPoint{Period: table.FormatPeriod(p.Period), Value: p.Value})
			}
			docs = append(docs, doc)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	return report.RenderMarkdown(w, report.SeriesMarkdown(title, columns...), a.format, a.cfg.Output.WordWrap)
}
