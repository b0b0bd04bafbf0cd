// Package calc provides the deterministic discounting primitives the valuation
// formulas are built on.
// This file implements present value, NPV and terminal value.
package calc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrDivisionByZero marks a formula whose denominator is exactly zero.
	ErrDivisionByZero = errors.New("calc: division by zero")
	// ErrIndeterminate marks a formula with no real-valued result.
	ErrIndeterminate = errors.New("calc: indeterminate result")
)

// =============================================================================
// DISCOUNTING
// =============================================================================

// CheckRate verifies that (1 + rate) is a usable discount base.
// Negative rates are valid; rates at or below -100% are not.
func CheckRate(rate float64) error {
	if err := CheckFinite("discount rate", rate); err != nil {
		return err
	}
	switch {
	case 1+rate == 0:
		return fmt.Errorf("discount rate %v: %w", rate, ErrDivisionByZero)
	case 1+rate < 0:
		return fmt.Errorf("discount rate %v below -100%%: %w", rate, ErrIndeterminate)
	}
	return nil
}

// CheckFinite rejects a NaN or infinite rate.
func CheckFinite(name string, rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%s is %v: %w", name, rate, ErrIndeterminate)
	}
	return nil
}

// PresentValue calculates PV of a single cash flow.
//
// FORMULA: PV = CF / (1 + r)^t
func PresentValue(cashFlow, discountRate float64, periods int) float64 {
	if periods < 0 {
		return 0
	}
	return cashFlow / math.Pow(1+discountRate, float64(periods))
}

// DiscountFactors returns 1/(1+r)^k for k = 1..n.
func DiscountFactors(rate float64, n int) []float64 {
	factors := make([]float64, n)
	cum := 1.0
	for k := range factors {
		cum /= 1 + rate
		factors[k] = cum
	}
	return factors
}

// NPV discounts a series of periodic cash flows.
//
// FORMULA: NPV = Σ [ CF_k / (1 + r)^k ], k = 1..n
//
// The first flow is discounted a full period (end-of-period convention).
// Callers wanting mid-period timing apply MidPeriodFactor to the result.
func NPV(cashFlows []float64, rate float64) float64 {
	return floats.Dot(cashFlows, DiscountFactors(rate, len(cashFlows)))
}

// MidPeriodFactor shifts end-of-period discounting half a period earlier.
//
// FORMULA: adj = sqrt(1 + r)
func MidPeriodFactor(rate float64) float64 {
	return math.Sqrt(1 + rate)
}

// =============================================================================
// TERMINAL VALUE
// =============================================================================

// TerminalValueGordonGrowth calculates terminal value with the perpetuity growth model.
//
// FORMULA: TV = CF_t × (1 + g) / (r - g)
//
// Where:
//   - CF_t = last forecast cash flow
//   - r = discount rate
//   - g = long-run growth rate
//
// r > g is a caller precondition and is not enforced; r < g yields a negative
// value. r == g has no finite value and returns ErrDivisionByZero.
func TerminalValueGordonGrowth(lastCashFlow, discountRate, growthRate float64) (float64, error) {
	if discountRate == growthRate {
		return 0, fmt.Errorf("terminal value with discount rate equal to growth rate %v: %w", growthRate, ErrDivisionByZero)
	}
	return lastCashFlow * (1 + growthRate) / (discountRate - growthRate), nil
}
