package valuation

import (
	"math"
	"testing"
	"time"

	"corporate_valuation/pkg/core/calc"
	"corporate_valuation/pkg/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseCase = Assumptions{WACC: 0.10, ShortTermGrowth: 0.05, LongTermGrowth: 0.02}

func fcfSeries(latest float64) table.Series {
	return table.NewSeries(
		table.Point{Period: fy2022, Value: 800},
		table.Point{Period: fy2023, Value: latest},
	)
}

func TestProject_ReferenceScenario(t *testing.T) {
	f, err := Project(fcfSeries(1000), baseCase)
	require.NoError(t, err)

	assert.Equal(t, table.Point{Period: fy2023, Value: 1000}, f.Anchor)
	require.Len(t, f.Periods, ForecastYears)

	wantFCF := []float64{1050, 1102.5, 1157.625, 1215.50625, 1276.2815625}
	for k, p := range f.Periods {
		assert.InDelta(t, wantFCF[k], p.FCF, 1e-9, "fcf[%d]", k+1)
		assert.Equal(t, fy2023.Add(time.Duration(k+1)*365*24*time.Hour), p.Date)
		if k < ForecastYears-1 {
			assert.Zero(t, p.TerminalValue)
		}
	}
	assert.InDelta(t, 16272.589921875, f.TerminalValue(), 1e-6)

	var npv float64
	for k, cf := range f.CashFlows() {
		npv += cf / math.Pow(1.10, float64(k+1))
	}
	assert.InDelta(t, npv, f.NPV, 1e-6)
	assert.InDelta(t, npv*math.Sqrt(1.10), f.PresentValue, 1e-6)
	assert.InDelta(t, 15167.998265, f.PresentValue, 1e-5)
}

func TestProject_FlatYearCadence(t *testing.T) {
	// 2023-12-31 + 365 days lands on 2024-12-30 because 2024 is a leap year.
	anchor := table.Date(2023, time.December, 31)
	f, err := Project(table.NewSeries(table.Point{Period: anchor, Value: 1}), baseCase)
	require.NoError(t, err)
	assert.Equal(t, table.Date(2024, time.December, 30), f.Periods[0].Date)
}

func TestDCF_Idempotent(t *testing.T) {
	first, err := DCF(fcfSeries(1000), baseCase)
	require.NoError(t, err)
	second, err := DCF(fcfSeries(1000), baseCase)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(first), math.Float64bits(second))
}

func TestDCF_MonotonicInShortTermGrowth(t *testing.T) {
	low, err := Project(fcfSeries(1000), baseCase)
	require.NoError(t, err)

	higher := baseCase
	higher.ShortTermGrowth = 0.06
	high, err := Project(fcfSeries(1000), higher)
	require.NoError(t, err)

	for k := range low.Periods {
		assert.Greater(t, high.Periods[k].FCF, low.Periods[k].FCF, "fcf[%d]", k+1)
	}
	assert.Greater(t, high.PresentValue, low.PresentValue)
	assert.InDelta(t, 15810.451529, high.PresentValue, 1e-5)
}

func TestDCF_WACCEqualsLongTermGrowth(t *testing.T) {
	a := Assumptions{WACC: 0.03, ShortTermGrowth: 0.05, LongTermGrowth: 0.03}
	_, err := DCF(fcfSeries(1000), a)
	assert.ErrorIs(t, err, calc.ErrDivisionByZero)
}

func TestDCF_AcceptsNegativeRates(t *testing.T) {
	tests := []struct {
		name string
		a    Assumptions
	}{
		{"negative short-term growth", Assumptions{WACC: 0.08, ShortTermGrowth: -0.10, LongTermGrowth: 0.01}},
		{"negative long-term growth", Assumptions{WACC: 0.08, ShortTermGrowth: 0.03, LongTermGrowth: -0.02}},
		{"negative wacc", Assumptions{WACC: -0.02, ShortTermGrowth: 0.03, LongTermGrowth: -0.05}},
		{"wacc below long-term growth", Assumptions{WACC: 0.02, ShortTermGrowth: 0.03, LongTermGrowth: 0.04}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv, err := DCF(fcfSeries(1000), tt.a)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(pv) || math.IsInf(pv, 0))
		})
	}
}

func TestDCF_InvalidDiscountBase(t *testing.T) {
	_, err := DCF(fcfSeries(1000), Assumptions{WACC: -1, LongTermGrowth: 0.02})
	assert.ErrorIs(t, err, calc.ErrDivisionByZero)

	_, err = DCF(fcfSeries(1000), Assumptions{WACC: -1.2, LongTermGrowth: 0.02})
	assert.ErrorIs(t, err, calc.ErrIndeterminate)
}

func TestDCF_NonFiniteRates(t *testing.T) {
	tests := []struct {
		name string
		a    Assumptions
	}{
		{"nan wacc", Assumptions{WACC: math.NaN(), ShortTermGrowth: 0.05, LongTermGrowth: 0.02}},
		{"infinite wacc", Assumptions{WACC: math.Inf(1), ShortTermGrowth: 0.05, LongTermGrowth: 0.02}},
		{"nan short-term growth", Assumptions{WACC: 0.10, ShortTermGrowth: math.NaN(), LongTermGrowth: 0.02}},
		{"infinite short-term growth", Assumptions{WACC: 0.10, ShortTermGrowth: math.Inf(-1), LongTermGrowth: 0.02}},
		{"nan long-term growth", Assumptions{WACC: 0.10, ShortTermGrowth: 0.05, LongTermGrowth: math.NaN()}},
		{"infinite long-term growth", Assumptions{WACC: 0.10, ShortTermGrowth: 0.05, LongTermGrowth: math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DCF(fcfSeries(1000), tt.a)
			assert.ErrorIs(t, err, calc.ErrIndeterminate)
		})
	}
}

func TestDCF_EmptySeries(t *testing.T) {
	_, err := DCF(table.Series{}, baseCase)
	assert.ErrorIs(t, err, table.ErrEmptySeries)
}

func TestDCF_UsesLatestPeriodOnly(t *testing.T) {
	a, err := DCF(fcfSeries(1000), baseCase)
	require.NoError(t, err)
	b, err := DCF(table.NewSeries(table.Point{Period: fy2023, Value: 1000}), baseCase)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
