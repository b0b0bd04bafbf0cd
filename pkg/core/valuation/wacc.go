package valuation

import (
	"fmt"

	"corporate_valuation/pkg/core/calc"
)

// WACCInput describes a target capital structure for deriving a discount rate.
type WACCInput struct {
	UnleveredBeta     float64 `json:"unlevered_beta" yaml:"unlevered_beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"market_risk_premium"`
	PreTaxCostOfDebt  float64 `json:"pre_tax_cost_of_debt" yaml:"pre_tax_cost_of_debt"`
	TaxRate           float64 `json:"tax_rate" yaml:"tax_rate"`
	DebtToEquityRatio float64 `json:"debt_to_equity" yaml:"debt_to_equity"` // target D/E
}

// WACCResult holds the intermediate rates alongside the WACC.
type WACCResult struct {
	LeveredBeta  float64 `json:"levered_beta"`
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after tax
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
	WACC         float64 `json:"wacc"`
}

// CalculateWACC computes the weighted average cost of capital with CAPM and
// the Hamada re-levering equation.
//
// FORMULA:
//
//	βL   = βU × (1 + (1 − t) × D/E)
//	ke   = rf + βL × MRP
//	kd   = rd × (1 − t)
//	wd   = (D/E) / (1 + D/E),  we = 1 / (1 + D/E)
//	WACC = ke × we + kd × wd
func CalculateWACC(in WACCInput) (WACCResult, error) {
	if 1+in.DebtToEquityRatio == 0 {
		return WACCResult{}, fmt.Errorf("wacc with debt-to-equity %v: %w", in.DebtToEquityRatio, calc.ErrDivisionByZero)
	}

	leveredBeta := in.UnleveredBeta * (1 + (1-in.TaxRate)*in.DebtToEquityRatio)
	ke := in.RiskFreeRate + leveredBeta*in.MarketRiskPremium
	kd := in.PreTaxCostOfDebt * (1 - in.TaxRate)

	wd := in.DebtToEquityRatio / (1 + in.DebtToEquityRatio)
	we := 1 / (1 + in.DebtToEquityRatio)

	return WACCResult{
		LeveredBeta:  leveredBeta,
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WeightDebt:   wd,
		WeightEquity: we,
		WACC:         ke*we + kd*wd,
	}, nil
}
