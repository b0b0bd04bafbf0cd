package main

import (
	"corporate_valuation/pkg/core/report"
	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/validate"
	"corporate_valuation/pkg/core/valuation"

	"github.com/spf13/cobra"
)

// --- DCF Command ---

func (a *app) dcfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dcf",
		Short: "Five-year discounted cash flow valuation",
		Long: `Projects the latest free cash flow five years forward at the short-term
growth rate, adds a Gordon-growth terminal value to the final year and
discounts at WACC with a mid-period adjustment.

Examples:
  finmod dcf --income-statement is.csv --cash-flow cf.csv --wacc 0.1 --short-term-growth 0.05 --long-term-growth 0.02
  finmod dcf --fcf-file fcf.csv --scenarios scenarios.yaml --scenario bear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, _, err := a.forecastReport(cmd)
			if err != nil {
				return err
			}
			return r.Render(cmd.OutOrStdout(), a.format)
		},
	}
	a.addRateFlags(cmd)
	a.addFCFFileFlag(cmd)
	return cmd
}

// --- Sensitivity Command ---

func (a *app) sensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "DCF value across a WACC × long-term growth grid",
		Long: `Values the forecast at WACC and long-term growth stepped either side of the
resolved assumptions. Step sizes and counts come from the sensitivity
section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, fcf, err := a.forecastReport(cmd)
			if err != nil {
				return err
			}
			if err := a.attachSensitivity(cmd, r, fcf); err != nil {
				return err
			}
			return r.Render(cmd.OutOrStdout(), a.format)
		},
	}
	a.addRateFlags(cmd)
	a.addFCFFileFlag(cmd)
	return cmd
}

// --- Report Command ---

func (a *app) reportCmd() *cobra.Command {
	var noSensitivity bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Every metric with the DCF, sensitivity grid and data checks",
		Long: `Runs every formula the supplied statements allow. A metric that cannot be
computed is listed with its reason instead of failing the report.

Data checks cover the balance sheet identity, net income and cash linkage
between statements, outlying period-over-period moves, a leading-digit test
and historical growth of every computed metric.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.statements(cmd)
			if err != nil {
				return err
			}
			assumptions, scenario, err := a.assumptions(cmd)
			if err != nil {
				return err
			}

			summary := valuation.Analyze(st, assumptions)
			for _, m := range summary.Metrics {
				if m.Err != nil {
					a.log.Warn().Err(m.Err).Str("metric", m.Name).Msg("metric not computed")
				}
			}

			r := report.New(a.flags.company, scenario, summary)
			r.WordWrap = a.cfg.Output.WordWrap
			checks := validate.Run(st, summary.Metrics, validate.Options{
				Tolerance:        a.cfg.Audit.Tolerance,
				OutlierThreshold: a.cfg.Audit.OutlierThreshold,
			})
			for _, c := range checks.Failed() {
				a.log.Warn().Str("check", c.Name).Time("period", c.Period).Float64("variance", c.Variance).Msg("check failed")
			}
			if checks.Benford.Flagged {
				a.log.Warn().Float64("mad", checks.Benford.MAD).Msg("leading digits deviate from Benford's law")
			}
			r.Checks = &checks
			if fcf, ok := summary.Metric(valuation.MetricFreeCashFlow); ok && summary.Forecast != nil && !noSensitivity {
				if err := a.attachSensitivity(cmd, r, fcf.Series); err != nil {
					return err
				}
			}
			return r.Render(cmd.OutOrStdout(), a.format)
		},
	}
	a.addRateFlags(cmd)
	a.addMarketCapFlags(cmd)
	cmd.Flags().BoolVar(&noSensitivity, "no-sensitivity", false, "skip the sensitivity grid")
	return cmd
}

// forecastReport builds a report holding free cash flow and its forecast.
func (a *app) forecastReport(cmd *cobra.Command) (*report.Report, table.Series, error) {
	assumptions, scenario, err := a.assumptions(cmd)
	if err != nil {
		return nil, table.Series{}, err
	}
	fcf, err := a.freeCashFlow()
	if err != nil {
		return nil, table.Series{}, err
	}
	forecast, err := valuation.Project(fcf, assumptions)
	if err != nil {
		return nil, table.Series{}, err
	}
	a.log.Info().Float64("npv", forecast.NPV).Float64("present_value", forecast.PresentValue).Msg("forecast computed")

	r := report.New(a.flags.company, scenario, valuation.Summary{
		Assumptions: assumptions,
		Metrics:     []valuation.MetricLineItem{{Name: valuation.MetricFreeCashFlow, Series: fcf}},
		Forecast:    &forecast,
	})
	r.WordWrap = a.cfg.Output.WordWrap
	return r, fcf, nil
}

func (a *app) attachSensitivity(cmd *cobra.Command, r *report.Report, fcf table.Series) error {
	sc := a.cfg.Sensitivity
	base := r.Summary.Assumptions
	waccs := valuation.Steps(base.WACC, sc.WACCStep, sc.Steps)
	growths := valuation.Steps(base.LongTermGrowth, sc.GrowthStep, sc.Steps)

	ctx := a.log.WithContext(cmd.Context())
	grid, err := valuation.Sensitivity(ctx, fcf, base, waccs, growths, sc.Concurrency)
	if err != nil {
		return err
	}
	r.Sensitivity = &grid
	return nil
}
