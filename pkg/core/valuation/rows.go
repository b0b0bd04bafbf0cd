package valuation

import (
	"corporate_valuation/pkg/core/table"

	"gonum.org/v1/gonum/floats"
)

// Statement line items, as labelled by the financial-statement source.
// Labels are exact keys, punctuation and case included.
const (
	LabelTotalAssets             = "Total Assets"
	LabelCash                    = "Cash And Cash Equivalents"
	LabelTotalCurrentLiabilities = "Total Current Liabilities"
	LabelShortTermDebt           = "Short/Current Long Term Debt"
	LabelOtherCurrentLiabilities = "Other Current Liabilities"
	LabelTotalLiabilities        = "Total Liabilities"
	LabelStockholdersEquity      = "Total stockholders' equity"

	LabelNetReceivables  = "Net Receivables"
	LabelInventory       = "Inventory"
	LabelAccountsPayable = "Accounts Payable"

	LabelNetIncome         = "Net Income"
	LabelIncomeTaxExpense  = "Income Tax Expense"
	LabelInterestExpense   = "Interest Expense"
	LabelOperatingCashFlow = "Total Cash Flow From Operating Activities"
	LabelInvestingCashFlow = "Total Cash Flows From Investing Activities"
)

// SignedRow is one term of a RowSpec.
type SignedRow struct {
	Label string
	Sign  float64 // +1 or -1
}

// RowSpec is a fixed linear combination of balance-sheet rows.
type RowSpec struct {
	name string
	rows []SignedRow
}

func newRowSpec(name string, rows ...SignedRow) RowSpec {
	return RowSpec{name: name, rows: rows}
}

// Cash and debt adjustments shared by every row set.
var cashAndDebtAdjustments = []SignedRow{
	{LabelCash, -1},
	{LabelTotalCurrentLiabilities, -1},
	{LabelShortTermDebt, +1},
	{LabelOtherCurrentLiabilities, +1},
}

var (
	// AssetsRows values the firm from the asset side of the balance sheet.
	AssetsRows = newRowSpec("assets", append([]SignedRow{{LabelTotalAssets, +1}}, cashAndDebtAdjustments...)...)

	// LiabilitiesEquityRows values the firm from liabilities plus book equity.
	LiabilitiesEquityRows = newRowSpec("liabilities and equity", append([]SignedRow{
		{LabelTotalLiabilities, +1},
		{LabelStockholdersEquity, +1},
	}, cashAndDebtAdjustments...)...)

	// LiabilitiesRows is LiabilitiesEquityRows without book equity; market
	// capitalisation takes its place.
	LiabilitiesRows = newRowSpec("liabilities", append([]SignedRow{{LabelTotalLiabilities, +1}}, cashAndDebtAdjustments...)...)
)

func (s RowSpec) Name() string { return s.name }

// Rows returns a copy of the terms.
func (s RowSpec) Rows() []SignedRow {
	return append([]SignedRow(nil), s.rows...)
}

func (s RowSpec) Labels() []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Label
	}
	return out
}

func (s RowSpec) signs() []float64 {
	out := make([]float64, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.Sign
	}
	return out
}

// Sum evaluates Σ value × sign over one period's column.
func (s RowSpec) Sum(c table.Column) (float64, error) {
	values, err := c.Values(s.Labels()...)
	if err != nil {
		return 0, err
	}
	return floats.Dot(values, s.signs()), nil
}

// Apply evaluates the row set for every period of t.
func (s RowSpec) Apply(t *table.Table) (table.Series, error) {
	return t.Map(s.Sum)
}
