package validate

import (
	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/valuation"
)

// Options tune Run.
type Options struct {
	Tolerance        float64 // relative, 0.001 = 0.1%
	OutlierThreshold float64 // relative change, 1.0 = 100%
}

// Result collects every check over one set of statements.
type Result struct {
	Checkpoints []Checkpoint
	Outliers    []Outlier
	Benford     BenfordResult
	Growth      []Growth
}

// Failed returns the checkpoints outside tolerance.
func (r Result) Failed() []Checkpoint {
	var out []Checkpoint
	for _, c := range r.Checkpoints {
		if !c.Passed() {
			out = append(out, c)
		}
	}
	return out
}

// Run checks whichever statements are present and measures the growth of
// every metric that was computed.
func Run(st valuation.Statements, metrics []valuation.MetricLineItem, opts Options) Result {
	var r Result
	var values []float64
	scan := func(name string, t *table.Table) {
		if t == nil {
			return
		}
		r.Outliers = append(r.Outliers, Outliers(name, t, opts.OutlierThreshold)...)
		for _, label := range t.Labels() {
			if row, err := t.Row(label); err == nil {
				values = append(values, row.Values()...)
			}
		}
	}
	scan("balance sheet", st.BalanceSheet)
	scan("income statement", st.IncomeStatement)
	scan("cash flow statement", st.CashFlow)
	r.Benford = Benford(values)

	if st.BalanceSheet != nil {
		r.Checkpoints = append(r.Checkpoints, BalanceSheetIdentity(st.BalanceSheet, opts.Tolerance)...)
	}
	if st.IncomeStatement != nil && st.CashFlow != nil {
		r.Checkpoints = append(r.Checkpoints, NetIncomeLinkage(st.IncomeStatement, st.CashFlow, opts.Tolerance)...)
	}
	if st.BalanceSheet != nil && st.CashFlow != nil {
		r.Checkpoints = append(r.Checkpoints, CashLinkage(st.BalanceSheet, st.CashFlow, opts.Tolerance)...)
	}

	for _, m := range metrics {
		if m.Err != nil || m.Series.Len() == 0 {
			continue
		}
		r.Growth = append(r.Growth, MeasureGrowth(m.Name, m.Series))
	}
	return r
}
