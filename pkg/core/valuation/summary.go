package valuation

import (
	"errors"

	"corporate_valuation/pkg/core/table"
)

// ErrStatementMissing is recorded for a metric whose source statement was not supplied.
var ErrStatementMissing = errors.New("valuation: statement not supplied")

// Metric names reported by Analyze, in report order.
const (
	MetricEnterpriseValue       = "Enterprise Value"
	MetricLiabilitiesEquity     = "Liabilities and Equity Value"
	MetricNetWorkingCapital     = "Net Working Capital"
	MetricEnterpriseValueMarket = "Enterprise Value (Efficient Market)"
	MetricFreeCashFlow          = "Free Cash Flow"
)

// Statements bundles the tables for one company. Any field may be nil; a zero
// MarketCap skips the efficient-market metric.
type Statements struct {
	BalanceSheet    *table.Table
	IncomeStatement *table.Table
	CashFlow        *table.Table
	MarketCap       table.Series
}

// MetricLineItem is one row of a Summary. Err is set when the metric could not
// be computed; Series is then empty.
type MetricLineItem struct {
	Name   string
	Series table.Series
	Err    error
}

// Summary is the outcome of every formula for one company.
type Summary struct {
	Metrics     []MetricLineItem
	Assumptions Assumptions
	Forecast    *Forecast
	ForecastErr error
}

// Metric looks up a line item by name.
func (s Summary) Metric(name string) (MetricLineItem, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return MetricLineItem{}, false
}

// Analyze runs every formula and the DCF. A metric that fails is recorded with
// its error and does not stop the others; the DCF needs free cash flow.
func Analyze(st Statements, a Assumptions) Summary {
	s := Summary{Assumptions: a}

	add := func(name string, series table.Series, err error) {
		s.Metrics = append(s.Metrics, MetricLineItem{Name: name, Series: series, Err: err})
	}
	fromBalanceSheet := func(name string, fn func(*table.Table) (table.Series, error)) {
		if st.BalanceSheet == nil {
			add(name, table.Series{}, ErrStatementMissing)
			return
		}
		series, err := fn(st.BalanceSheet)
		add(name, series, err)
	}

	fromBalanceSheet(MetricEnterpriseValue, EnterpriseValue)
	fromBalanceSheet(MetricLiabilitiesEquity, LiabilitiesEquityValue)
	fromBalanceSheet(MetricNetWorkingCapital, NetWorkingCapital)
	if st.MarketCap.Len() > 0 {
		fromBalanceSheet(MetricEnterpriseValueMarket, func(bs *table.Table) (table.Series, error) {
			return EnterpriseValueEfficientMarket(bs, st.MarketCap)
		})
	}

	if st.IncomeStatement == nil || st.CashFlow == nil {
		add(MetricFreeCashFlow, table.Series{}, ErrStatementMissing)
		s.ForecastErr = ErrStatementMissing
		return s
	}
	fcf, err := FreeCashFlowFromStatements(st.IncomeStatement, st.CashFlow)
	add(MetricFreeCashFlow, fcf, err)
	if err != nil {
		s.ForecastErr = err
		return s
	}

	forecast, err := Project(fcf, a)
	if err != nil {
		s.ForecastErr = err
		return s
	}
	s.Forecast = &forecast
	return s
}
