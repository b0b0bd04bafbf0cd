// finmod computes enterprise value, working capital, free cash flow and a
// discounted cash flow valuation from financial statement files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "finmod",
		Short: "Corporate finance metrics and DCF valuation",
		Long: `finmod reads balance sheets, income statements and cash flow statements
(CSV, JSON/HJSON or HTML, one column per fiscal period) and computes
enterprise value, net working capital, free cash flow and a five-year
discounted cash flow valuation.

Rates come from a scenario file (--scenarios/--scenario) or from
--wacc, --short-term-growth and --long-term-growth; flags override the scenario.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file path (default: ./config/finmod.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&a.flags.format, "format", "f", "", "output format override (markdown, html, terminal, json)")
	pf.Float64Var(&a.flags.scale, "scale", 0, "multiply every statement value, e.g. 1000 for thousands")

	pf.StringVar(&a.flags.balanceSheet, "balance-sheet", "", "balance sheet file")
	pf.StringVar(&a.flags.incomeStatement, "income-statement", "", "income statement file")
	pf.StringVar(&a.flags.cashFlow, "cash-flow", "", "cash flow statement file")

	root.AddCommand(
		versionCmd(),
		a.evCmd(),
		a.nwcCmd(),
		a.evMarketCmd(),
		a.fcfCmd(),
		a.dcfCmd(),
		a.sensitivityCmd(),
		a.reportCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "finmod %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}
