// Package report renders a valuation summary as markdown, HTML, terminal
// output or JSON.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/validate"
	"corporate_valuation/pkg/core/valuation"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Report is one valuation run.
type Report struct {
	ID          string
	Company     string
	Scenario    string
	GeneratedAt time.Time
	Summary     valuation.Summary
	Sensitivity *valuation.SensitivityGrid
	Checks      *validate.Result

	// WordWrap is the terminal width for FormatTerminal. Zero means 100.
	WordWrap int
}

// New starts a report with a fresh run ID.
func New(company, scenario string, s valuation.Summary) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Company:     company,
		Scenario:    scenario,
		GeneratedAt: time.Now().UTC(),
		Summary:     s,
	}
}

// Render writes the report in format f.
func (r *Report) Render(w io.Writer, f Format) error {
	if f == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.document())
	}
	return RenderMarkdown(w, r.Markdown(), f, r.WordWrap)
}

// RenderMarkdown writes a markdown document as markdown, HTML or styled
// terminal text. wrap is the terminal width; zero means 100.
func RenderMarkdown(w io.Writer, md string, f Format, wrap int) error {
	switch f {
	case FormatMarkdown:
		_, err := io.WriteString(w, md)
		return err
	case FormatHTML:
		var buf bytes.Buffer
		conv := goldmark.New(goldmark.WithExtensions(extension.Table))
		if err := conv.Convert([]byte(md), &buf); err != nil {
			return fmt.Errorf("report: html: %w", err)
		}
		_, err := buf.WriteTo(w)
		return err
	case FormatTerminal:
		if wrap <= 0 {
			wrap = 100
		}
		tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrap))
		if err != nil {
			return fmt.Errorf("report: terminal: %w", err)
		}
		out, err := tr.Render(md)
		if err != nil {
			return fmt.Errorf("report: terminal: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	}
	return fmt.Errorf("report: format %q cannot render markdown", f)
}

// NamedSeries labels a column of SeriesMarkdown.
type NamedSeries struct {
	Name   string
	Series table.Series
}

// SeriesMarkdown renders one or more series as a table with a row per period.
func SeriesMarkdown(title string, columns ...NamedSeries) string {
	periodSet := make(map[time.Time]bool)
	for _, c := range columns {
		for _, p := range c.Series.Periods() {
			periodSet[p] = true
		}
	}
	periods := sortedPeriods(periodSet)

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n| Period |", title)
	for _, c := range columns {
		fmt.Fprintf(&b, " %s |", c.Name)
	}
	b.WriteString("\n|---|" + strings.Repeat("---:|", len(columns)) + "\n")
	for _, p := range periods {
		fmt.Fprintf(&b, "| %s |", table.FormatPeriod(p))
		for _, c := range columns {
			cell := ""
			if v, ok := c.Series.Get(p); ok {
				cell = Amount(v)
			}
			fmt.Fprintf(&b, " %s |", cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedPeriods(set map[time.Time]bool) []time.Time {
	periods := make([]time.Time, 0, len(set))
	for p := range set {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}

// Markdown builds the report body.
func (r *Report) Markdown() string {
	var b strings.Builder
	title := "Valuation report"
	if r.Company != "" {
		title += ": " + r.Company
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Run `%s`", r.ID)
	if r.Scenario != "" {
		fmt.Fprintf(&b, ", scenario `%s`", r.Scenario)
	}
	fmt.Fprintf(&b, ", generated %s.\n\n", r.GeneratedAt.Format(time.RFC3339))

	a := r.Summary.Assumptions
	b.WriteString("## Assumptions\n\n")
	b.WriteString("| WACC | Short-term growth | Long-term growth |\n|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s |\n\n", Rate(a.WACC), Rate(a.ShortTermGrowth), Rate(a.LongTermGrowth))

	r.writeMetrics(&b)
	r.writeGrowth(&b)
	r.writeForecast(&b)
	r.writeSensitivity(&b)
	r.writeChecks(&b)
	return b.String()
}

func (r *Report) writeMetrics(b *strings.Builder) {
	periodSet := make(map[time.Time]bool)
	for _, m := range r.Summary.Metrics {
		for _, p := range m.Series.Periods() {
			periodSet[p] = true
		}
	}
	periods := sortedPeriods(periodSet)

	b.WriteString("## Historical metrics\n\n")
	if len(periods) > 0 {
		b.WriteString("| Metric |")
		for _, p := range periods {
			fmt.Fprintf(b, " %s |", table.FormatPeriod(p))
		}
		b.WriteString("\n|---|" + strings.Repeat("---:|", len(periods)) + "\n")
		for _, m := range r.Summary.Metrics {
			if m.Err != nil {
				continue
			}
			fmt.Fprintf(b, "| %s |", m.Name)
			for _, p := range periods {
				cell := ""
				if v, ok := m.Series.Get(p); ok {
					cell = Amount(v)
				}
				fmt.Fprintf(b, " %s |", cell)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	for _, m := range r.Summary.Metrics {
		if m.Err != nil {
			fmt.Fprintf(b, "- %s not computed: %v\n", m.Name, m.Err)
		}
	}
	b.WriteString("\n")
}

func (r *Report) writeForecast(b *strings.Builder) {
	b.WriteString("## Discounted cash flow\n\n")
	f := r.Summary.Forecast
	if f == nil {
		fmt.Fprintf(b, "Not computed: %v\n\n", r.Summary.ForecastErr)
		return
	}
	fmt.Fprintf(b, "Anchored on free cash flow of %s for %s.\n\n", Amount(f.Anchor.Value), table.FormatPeriod(f.Anchor.Period))
	b.WriteString("| Date | Free cash flow | Terminal value | Cash flow |\n|---|---:|---:|---:|\n")
	for _, p := range f.Periods {
		tv := ""
		if p.TerminalValue != 0 {
			tv = Amount(p.TerminalValue)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", table.FormatPeriod(p.Date), Amount(p.FCF), tv, Amount(p.CashFlow()))
	}
	fmt.Fprintf(b, "\n**NPV:** %s\n\n**Present value (mid-period):** %s\n\n", Amount(f.NPV), Amount(f.PresentValue))
}

func (r *Report) writeSensitivity(b *strings.Builder) {
	g := r.Sensitivity
	if g == nil {
		return
	}
	b.WriteString("## Sensitivity\n\nPresent value by WACC (rows) and long-term growth (columns).\n\n| WACC |")
	for _, growth := range g.Growths {
		fmt.Fprintf(b, " %s |", Rate(growth))
	}
	b.WriteString("\n|---:|" + strings.Repeat("---:|", len(g.Growths)) + "\n")
	for i, wacc := range g.WACCs {
		fmt.Fprintf(b, "| %s |", Rate(wacc))
		for _, cell := range g.Cells[i] {
			if cell.Err != nil {
				b.WriteString(" n/a |")
				continue
			}
			fmt.Fprintf(b, " %s |", Amount(cell.PresentValue))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (r *Report) writeGrowth(b *strings.Builder) {
	if r.Checks == nil || len(r.Checks.Growth) == 0 {
		return
	}
	periodSet := make(map[time.Time]bool)
	for _, g := range r.Checks.Growth {
		for _, p := range g.YoY.Periods() {
			periodSet[p] = true
		}
	}
	periods := sortedPeriods(periodSet)

	b.WriteString("## Growth\n\nYear-over-year change by period and compound annual growth.\n\n| Metric |")
	for _, p := range periods {
		fmt.Fprintf(b, " %s |", table.FormatPeriod(p))
	}
	b.WriteString(" CAGR |\n|---|" + strings.Repeat("---:|", len(periods)+1) + "\n")
	for _, g := range r.Checks.Growth {
		fmt.Fprintf(b, "| %s |", g.Metric)
		for _, p := range periods {
			cell := ""
			if v, ok := g.YoY.Get(p); ok {
				cell = Rate(v)
			}
			fmt.Fprintf(b, " %s |", cell)
		}
		cagr := "n/a"
		if g.CAGRErr == nil {
			cagr = Rate(g.CAGR)
		}
		fmt.Fprintf(b, " %s |\n", cagr)
	}
	b.WriteString("\n")
}

func (r *Report) writeChecks(b *strings.Builder) {
	c := r.Checks
	if c == nil {
		return
	}
	b.WriteString("## Data checks\n\n")
	if len(c.Checkpoints) > 0 {
		b.WriteString("| Period | Check | Reported | Calculated | Variance | Status |\n|---|---|---:|---:|---:|---|\n")
		for _, cp := range c.Checkpoints {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
				table.FormatPeriod(cp.Period), cp.Name, Amount(cp.Reported), Amount(cp.Calculated), Amount(cp.Variance), cp.Status)
		}
		b.WriteString("\n")
	}
	for _, o := range c.Outliers {
		fmt.Fprintf(b, "- %s, %s, %s: %s (%s to %s)\n",
			o.Statement, o.Label, table.FormatPeriod(o.Period), o.Reason, Amount(o.Prior), Amount(o.Value))
	}
	if len(c.Outliers) > 0 {
		b.WriteString("\n")
	}
	bf := c.Benford
	if bf.Total == 0 {
		fmt.Fprintf(b, "Leading-digit test: %s.\n\n", bf.Level)
		return
	}
	fmt.Fprintf(b, "Leading-digit test over %d values: MAD %.4f, %s.\n\n", bf.Total, bf.MAD, bf.Level)
}
