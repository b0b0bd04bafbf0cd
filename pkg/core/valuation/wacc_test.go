package valuation

import (
	"testing"

	"corporate_valuation/pkg/core/calc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateWACC(t *testing.T) {
	res, err := CalculateWACC(WACCInput{
		UnleveredBeta:     1.0,
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.05,
		PreTaxCostOfDebt:  0.06,
		TaxRate:           0.25,
		DebtToEquityRatio: 0.5,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.375, res.LeveredBeta, 1e-12)
	assert.InDelta(t, 0.10875, res.CostOfEquity, 1e-12)
	assert.InDelta(t, 0.045, res.CostOfDebt, 1e-12)
	assert.InDelta(t, 1.0/3, res.WeightDebt, 1e-12)
	assert.InDelta(t, 2.0/3, res.WeightEquity, 1e-12)
	assert.InDelta(t, 0.10875*2/3+0.045/3, res.WACC, 1e-12)
}

func TestCalculateWACC_AllEquity(t *testing.T) {
	res, err := CalculateWACC(WACCInput{UnleveredBeta: 1.2, RiskFreeRate: 0.03, MarketRiskPremium: 0.05})
	require.NoError(t, err)
	assert.InDelta(t, 0.09, res.WACC, 1e-12)
	assert.Zero(t, res.WeightDebt)
}

func TestCalculateWACC_DegenerateLeverage(t *testing.T) {
	_, err := CalculateWACC(WACCInput{DebtToEquityRatio: -1})
	assert.ErrorIs(t, err, calc.ErrDivisionByZero)
}
