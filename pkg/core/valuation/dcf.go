package valuation

import (
	"fmt"
	"time"

	"corporate_valuation/pkg/core/calc"
	"corporate_valuation/pkg/core/table"
)

// ForecastYears is the length of the explicit forecast horizon.
const ForecastYears = 5

// ForecastStep is the spacing of forecast dates. Years are a flat 365 days,
// not calendar years, so dates drift by a day across leap years.
const ForecastStep = 365 * 24 * time.Hour

// Assumptions are the caller-supplied rates for a DCF. There are no defaults.
type Assumptions struct {
	WACC            float64 `json:"wacc" yaml:"wacc"`
	ShortTermGrowth float64 `json:"short_term_growth" yaml:"short_term_growth"`
	LongTermGrowth  float64 `json:"long_term_growth" yaml:"long_term_growth"`
}

// ForecastPeriod is one projected year. TerminalValue is zero except on the
// final period.
type ForecastPeriod struct {
	Date          time.Time `json:"date"`
	FCF           float64   `json:"fcf"`
	TerminalValue float64   `json:"terminal_value"`
}

// CashFlow is the amount discounted for the period.
func (p ForecastPeriod) CashFlow() float64 {
	return p.FCF + p.TerminalValue
}

// Forecast holds a DCF projection and its discounted value.
type Forecast struct {
	Anchor       table.Point      `json:"anchor"`
	Assumptions  Assumptions      `json:"assumptions"`
	Periods      []ForecastPeriod `json:"periods"`
	NPV          float64          `json:"npv"`
	PresentValue float64          `json:"present_value"`
}

// CashFlows returns the per-period amounts fed to NPV.
func (f Forecast) CashFlows() []float64 {
	out := make([]float64, len(f.Periods))
	for i, p := range f.Periods {
		out[i] = p.CashFlow()
	}
	return out
}

// TerminalValue returns the terminal value attached to the final period.
func (f Forecast) TerminalValue() float64 {
	if len(f.Periods) == 0 {
		return 0
	}
	return f.Periods[len(f.Periods)-1].TerminalValue
}

// Project builds a two-stage DCF from the latest free cash flow in fcf.
//
// FORMULA:
//
//	FCF_k = FCF_{k-1} × (1 + g_short), k = 1..5, FCF_0 = latest actual
//	TV_5  = FCF_5 × (1 + g_long) / (WACC − g_long)
//	PV    = NPV(FCF_1, .., FCF_4, FCF_5 + TV_5; WACC) × sqrt(1 + WACC)
//
// The sqrt(1 + WACC) factor moves NPV's end-of-period discounting to mid-period.
// WACC > g_long is the caller's responsibility; WACC == g_long fails with
// calc.ErrDivisionByZero. Negative rates are accepted; NaN or infinite rates
// fail with calc.ErrIndeterminate.
func Project(fcf table.Series, a Assumptions) (Forecast, error) {
	anchor, err := fcf.Latest()
	if err != nil {
		return Forecast{}, fmt.Errorf("dcf: %w", err)
	}
	if err := calc.CheckRate(a.WACC); err != nil {
		return Forecast{}, fmt.Errorf("dcf: %w", err)
	}
	if err := calc.CheckFinite("short-term growth", a.ShortTermGrowth); err != nil {
		return Forecast{}, fmt.Errorf("dcf: %w", err)
	}
	if err := calc.CheckFinite("long-term growth", a.LongTermGrowth); err != nil {
		return Forecast{}, fmt.Errorf("dcf: %w", err)
	}

	periods := make([]ForecastPeriod, ForecastYears)
	next := anchor.Value
	for k := range periods {
		next *= 1 + a.ShortTermGrowth
		periods[k] = ForecastPeriod{
			Date: anchor.Period.Add(time.Duration(k+1) * ForecastStep),
			FCF:  next,
		}
	}

	last := &periods[len(periods)-1]
	tv, err := calc.TerminalValueGordonGrowth(last.FCF, a.WACC, a.LongTermGrowth)
	if err != nil {
		return Forecast{}, fmt.Errorf("dcf: %w", err)
	}
	last.TerminalValue = tv

	f := Forecast{Anchor: anchor, Assumptions: a, Periods: periods}
	f.NPV = calc.NPV(f.CashFlows(), a.WACC)
	f.PresentValue = f.NPV * calc.MidPeriodFactor(a.WACC)
	return f, nil
}

// DCF returns only the present value of Project.
func DCF(fcf table.Series, a Assumptions) (float64, error) {
	f, err := Project(fcf, a)
	if err != nil {
		return 0, err
	}
	return f.PresentValue, nil
}
