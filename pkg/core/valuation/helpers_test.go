package valuation

import (
	"testing"
	"time"

	"corporate_valuation/pkg/core/table"

	"github.com/stretchr/testify/require"
)

var (
	fy2022 = table.Date(2022, time.September, 30)
	fy2023 = table.Date(2023, time.September, 30)
)

func tableWith(t *testing.T, rows map[string][]float64) *table.Table {
	t.Helper()
	tbl := table.New(fy2022, fy2023)
	for label, values := range rows {
		require.NoError(t, tbl.SetRow(label, values...))
	}
	return tbl
}

func balanceSheet(t *testing.T) *table.Table {
	return tableWith(t, map[string][]float64{
		LabelTotalAssets:             {1000, 1200},
		LabelCash:                    {100, 150},
		LabelTotalCurrentLiabilities: {300, 320},
		LabelShortTermDebt:           {40, 60},
		LabelOtherCurrentLiabilities: {20, 25},
		LabelTotalLiabilities:        {600, 700},
		LabelStockholdersEquity:      {400, 500},
		LabelNetReceivables:          {100, 110},
		LabelInventory:               {50, 70},
		LabelAccountsPayable:         {30, 40},
	})
}

func incomeStatement(t *testing.T) *table.Table {
	return tableWith(t, map[string][]float64{
		LabelIncomeTaxExpense: {25, 50},
		LabelInterestExpense:  {-10, -20},
	})
}

func cashFlowStatement(t *testing.T) *table.Table {
	return tableWith(t, map[string][]float64{
		LabelNetIncome:         {75, 150},
		LabelOperatingCashFlow: {200, 260},
		LabelInvestingCashFlow: {-80, -100},
	})
}
