// Package valuation computes enterprise value, working capital, free cash flow
// and discounted-cash-flow value from financial-statement tables.
//
// Every function is pure: inputs are read, never retained or modified, so any
// number of calls may run concurrently.
package valuation

import (
	"fmt"
	"math"

	"corporate_valuation/pkg/core/calc"
	"corporate_valuation/pkg/core/table"
)

// =============================================================================
// BALANCE SHEET FORMULAS
// =============================================================================

// EnterpriseValue values the firm from the asset side of the balance sheet.
//
// FORMULA: EV = Total Assets − Cash − Total Current Liabilities
//
//	+ Short/Current Long Term Debt + Other Current Liabilities
//
// Only the asset-side sum is published. The liabilities-plus-equity side is
// available separately from LiabilitiesEquityValue and is never netted in.
func EnterpriseValue(balanceSheet *table.Table) (table.Series, error) {
	return AssetsRows.Apply(balanceSheet)
}

// LiabilitiesEquityValue is the same adjustment applied to Total Liabilities
// plus Total stockholders' equity.
func LiabilitiesEquityValue(balanceSheet *table.Table) (table.Series, error) {
	return LiabilitiesEquityRows.Apply(balanceSheet)
}

// NetWorkingCapital calculates operating working capital per period.
//
// FORMULA: NWC = Net Receivables + Inventory − Accounts Payable − Other Current Liabilities
func NetWorkingCapital(balanceSheet *table.Table) (table.Series, error) {
	return balanceSheet.Map(func(c table.Column) (float64, error) {
		v, err := c.Values(LabelNetReceivables, LabelInventory, LabelAccountsPayable, LabelOtherCurrentLiabilities)
		if err != nil {
			return 0, err
		}
		return v[0] + v[1] - v[2] - v[3], nil
	})
}

// EnterpriseValueEfficientMarket replaces book equity with market capitalisation.
//
// FORMULA: EV = Σ(liabilities-only rows) + Market Cap
//
// marketCap must cover exactly the periods of balanceSheet.
func EnterpriseValueEfficientMarket(balanceSheet *table.Table, marketCap table.Series) (table.Series, error) {
	if err := table.CheckAligned("balance sheet", balanceSheet.Periods(), "market cap", marketCap.Periods()); err != nil {
		return table.Series{}, err
	}
	debt, err := LiabilitiesRows.Apply(balanceSheet)
	if err != nil {
		return table.Series{}, err
	}
	return debt.Add(marketCap)
}

// EnterpriseValueEfficientMarketScalar applies one market capitalisation to every period.
func EnterpriseValueEfficientMarketScalar(balanceSheet *table.Table, marketCap float64) (table.Series, error) {
	debt, err := LiabilitiesRows.Apply(balanceSheet)
	if err != nil {
		return table.Series{}, err
	}
	return debt.AddScalar(marketCap), nil
}

// =============================================================================
// FREE CASH FLOW
// =============================================================================

// EffectiveTaxRate derives the tax rate from reported figures.
//
// FORMULA: t = Income Tax Expense / (Net Income + Income Tax Expense)
func EffectiveTaxRate(netIncome, incomeTaxExpense float64) (float64, error) {
	pretax := netIncome + incomeTaxExpense
	if pretax == 0 {
		return 0, fmt.Errorf("effective tax rate with zero pre-tax income: %w", calc.ErrDivisionByZero)
	}
	return incomeTaxExpense / pretax, nil
}

// AfterTaxInterest is the tax-shielded cost of interest paid.
//
// FORMULA: (1 − t) × |Interest Expense|
func AfterTaxInterest(taxRate, interestExpense float64) float64 {
	return (1 - taxRate) * math.Abs(interestExpense)
}

// FreeCashFlowFromStatements reconstructs free cash flow to the firm.
//
// FORMULA: FCF = (1 − t) × |Interest Expense| + CFO + CFI
//
// Net Income, CFO and CFI are read from the cash-flow statement; Income Tax
// Expense and Interest Expense from the income statement. Both tables must
// cover the same periods.
func FreeCashFlowFromStatements(incomeStatement, cashFlow *table.Table) (table.Series, error) {
	if err := table.CheckAligned("cash flow statement", cashFlow.Periods(), "income statement", incomeStatement.Periods()); err != nil {
		return table.Series{}, err
	}
	return cashFlow.Map(func(c table.Column) (float64, error) {
		is := incomeStatement.Column(c.Period())

		netIncome, err := c.Value(LabelNetIncome)
		if err != nil {
			return 0, err
		}
		taxes, err := is.Values(LabelIncomeTaxExpense, LabelInterestExpense)
		if err != nil {
			return 0, err
		}
		flows, err := c.Values(LabelOperatingCashFlow, LabelInvestingCashFlow)
		if err != nil {
			return 0, err
		}

		taxRate, err := EffectiveTaxRate(netIncome, taxes[0])
		if err != nil {
			return 0, fmt.Errorf("free cash flow for %s: %w", table.FormatPeriod(c.Period()), err)
		}
		return AfterTaxInterest(taxRate, taxes[1]) + flows[0] + flows[1], nil
	})
}
