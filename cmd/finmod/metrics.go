package main

import (
	"errors"

	"corporate_valuation/pkg/core/report"
	"corporate_valuation/pkg/core/valuation"

	"github.com/spf13/cobra"
)

// --- Balance sheet metrics ---

func (a *app) evCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ev",
		Short: "Enterprise value from the balance sheet",
		Long: `Enterprise value per period: total assets less cash, plus short-term debt,
plus other current liabilities. The liabilities-and-equity side is printed
alongside for comparison.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, err := a.load(a.flags.balanceSheet, "balance-sheet")
			if err != nil {
				return err
			}
			ev, err := valuation.EnterpriseValue(bs)
			if err != nil {
				return err
			}
			le, err := valuation.LiabilitiesEquityValue(bs)
			if err != nil {
				return err
			}
			return a.writeSeries(cmd.OutOrStdout(), "Enterprise value",
				report.NamedSeries{Name: valuation.MetricEnterpriseValue, Series: ev},
				report.NamedSeries{Name: valuation.MetricLiabilitiesEquity, Series: le},
			)
		},
	}
}

func (a *app) nwcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nwc",
		Short: "Net working capital from the balance sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, err := a.load(a.flags.balanceSheet, "balance-sheet")
			if err != nil {
				return err
			}
			nwc, err := valuation.NetWorkingCapital(bs)
			if err != nil {
				return err
			}
			return a.writeSeries(cmd.OutOrStdout(), "Net working capital",
				report.NamedSeries{Name: valuation.MetricNetWorkingCapital, Series: nwc})
		},
	}
}

func (a *app) evMarketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ev-em",
		Short: "Enterprise value under the efficient-market hypothesis",
		Long: `Enterprise value per period with market capitalization in place of book
equity, using the same cash and debt adjustments as ev. Pass --market-cap for
one value applied to every period, or --market-cap-file for a table whose
"Market Cap" row covers exactly the balance-sheet periods.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bs, err := a.load(a.flags.balanceSheet, "balance-sheet")
			if err != nil {
				return err
			}
			if a.flags.marketCapFile == "" && !cmd.Flags().Changed("market-cap") {
				return errors.New("--market-cap or --market-cap-file is required")
			}
			marketCap, err := a.marketCapSeries(cmd, bs)
			if err != nil {
				return err
			}
			ev, err := valuation.EnterpriseValueEfficientMarket(bs, marketCap)
			if err != nil {
				return err
			}
			return a.writeSeries(cmd.OutOrStdout(), "Enterprise value (efficient market)",
				report.NamedSeries{Name: valuation.MetricEnterpriseValueMarket, Series: ev})
		},
	}
	a.addMarketCapFlags(cmd)
	return cmd
}

// --- Cash flow metrics ---

func (a *app) fcfCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fcf",
		Short: "Free cash flow from the income and cash flow statements",
		Long: `Free cash flow per period: after-tax interest expense added to operating and
investing cash flow. The tax rate is derived from net income and income tax
expense. Both statements must cover the same periods.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fcf, err := a.freeCashFlow()
			if err != nil {
				return err
			}
			return a.writeSeries(cmd.OutOrStdout(), "Free cash flow",
				report.NamedSeries{Name: valuation.MetricFreeCashFlow, Series: fcf})
		},
	}
}
