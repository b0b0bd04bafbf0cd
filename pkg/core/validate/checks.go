// Package validate checks statement integrity and measures historical growth.
// Nothing here alters a table; every function reports what it finds.
package validate

import (
	"math"
	"time"

	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/valuation"
)

// Checkpoint statuses.
const (
	StatusMatch      = "MATCH"
	StatusImmaterial = "IMMATERIAL"
	StatusMismatch   = "MATERIAL_MISMATCH"
)

// Row read by CashLinkage from the cash flow statement.
const LabelChangeInCash = "Change In Cash"

// Checkpoint compares a reported figure against one derived from other rows.
type Checkpoint struct {
	Name       string    `json:"name"`
	Period     time.Time `json:"period"`
	Reported   float64   `json:"reported"`
	Calculated float64   `json:"calculated"`
	Variance   float64   `json:"variance"`
	Status     string    `json:"status"`
}

// Passed reports whether the variance is within tolerance.
func (c Checkpoint) Passed() bool { return c.Status != StatusMismatch }

func newCheckpoint(name string, period time.Time, reported, calculated, tolerance float64) Checkpoint {
	diff := calculated - reported
	status := StatusMatch
	if diff != 0 {
		status = StatusImmaterial
		if reported == 0 || math.Abs(diff/reported) > tolerance {
			status = StatusMismatch
		}
	}
	return Checkpoint{
		Name:       name,
		Period:     period,
		Reported:   reported,
		Calculated: calculated,
		Variance:   diff,
		Status:     status,
	}
}

// =============================================================================
// BALANCE SHEET
// =============================================================================

// BalanceSheetIdentity checks Total Assets against Total Liabilities plus
// Total stockholders' equity for every period that has all three rows. A
// relative variance within tolerance (0.001 = 0.1%) is immaterial.
//
// FORMULA: A = L + E
func BalanceSheetIdentity(bs *table.Table, tolerance float64) []Checkpoint {
	var checks []Checkpoint
	for _, p := range bs.Periods() {
		v, err := bs.Column(p).Values(valuation.LabelTotalAssets, valuation.LabelTotalLiabilities, valuation.LabelStockholdersEquity)
		if err != nil {
			continue
		}
		checks = append(checks, newCheckpoint("Balance sheet identity", p, v[0], v[1]+v[2], tolerance))
	}
	return checks
}

// =============================================================================
// CROSS-STATEMENT LINKAGE
// =============================================================================

// NetIncomeLinkage checks that the income statement and the cash flow
// statement report the same net income, for periods where both do.
func NetIncomeLinkage(income, cashFlow *table.Table, tolerance float64) []Checkpoint {
	var checks []Checkpoint
	for _, p := range income.Periods() {
		reported, err := income.Value(valuation.LabelNetIncome, p)
		if err != nil {
			continue
		}
		start, err := cashFlow.Value(valuation.LabelNetIncome, p)
		if err != nil {
			continue
		}
		checks = append(checks, newCheckpoint("Net income linkage", p, reported, start, tolerance))
	}
	return checks
}

// CashLinkage checks the reported change in cash against the movement of
// balance-sheet cash since the previous balance-sheet period.
//
// FORMULA: Change In Cash = Cash(t) − Cash(t−1)
func CashLinkage(bs, cashFlow *table.Table, tolerance float64) []Checkpoint {
	var checks []Checkpoint
	periods := bs.Periods()
	for i := 1; i < len(periods); i++ {
		p := periods[i]
		reported, err := cashFlow.Value(LabelChangeInCash, p)
		if err != nil {
			continue
		}
		current, err := bs.Value(valuation.LabelCash, p)
		if err != nil {
			continue
		}
		prior, err := bs.Value(valuation.LabelCash, periods[i-1])
		if err != nil {
			continue
		}
		checks = append(checks, newCheckpoint("Cash linkage", p, reported, current-prior, tolerance))
	}
	return checks
}
