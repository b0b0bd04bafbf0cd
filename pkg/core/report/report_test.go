package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"corporate_valuation/pkg/core/calc"
	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/validate"
	"corporate_valuation/pkg/core/valuation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fy2023 = table.Date(2023, time.December, 31)

func testReport(t *testing.T) *Report {
	t.Helper()
	a := valuation.Assumptions{WACC: 0.10, ShortTermGrowth: 0.05, LongTermGrowth: 0.02}
	fcf := table.NewSeries(table.Point{Period: fy2023, Value: 1000})
	forecast, err := valuation.Project(fcf, a)
	require.NoError(t, err)

	r := New("ACME", "base", valuation.Summary{
		Assumptions: a,
		Metrics: []valuation.MetricLineItem{
			{Name: valuation.MetricFreeCashFlow, Series: fcf},
			{Name: valuation.MetricNetWorkingCapital, Err: &table.MissingRowError{Label: "Net Receivables", Period: fy2023}},
		},
		Forecast: &forecast,
	})
	r.GeneratedAt = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return r
}

func TestNew_AssignsRunID(t *testing.T) {
	a := New("", "", valuation.Summary{})
	b := New("", "", valuation.Summary{})
	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMarkdown(t *testing.T) {
	md := testReport(t).Markdown()

	assert.Contains(t, md, "# Valuation report: ACME")
	assert.Contains(t, md, "scenario `base`")
	assert.Contains(t, md, "| 10.00% | 5.00% | 2.00% |")
	assert.Contains(t, md, "| Free Cash Flow | 1,000.00 |")
	assert.Contains(t, md, `- Net Working Capital not computed: table: missing row "Net Receivables" for period 2023-12-31`)
	assert.Contains(t, md, "| 2024-12-30 | 1,050.00 |  | 1,050.00 |")
	assert.Contains(t, md, "16,272.59")
	assert.Contains(t, md, "**Present value (mid-period):** 15,168.00")
	assert.NotContains(t, md, "## Sensitivity")
}

func TestMarkdown_ForecastMissing(t *testing.T) {
	r := New("", "", valuation.Summary{ForecastErr: valuation.ErrStatementMissing})
	assert.Contains(t, r.Markdown(), "Not computed: valuation: statement not supplied")
}

func TestMarkdown_SensitivityAndChecks(t *testing.T) {
	r := testReport(t)
	r.Sensitivity = &valuation.SensitivityGrid{
		WACCs:   []float64{0.02, 0.10},
		Growths: []float64{0.02},
		Cells: [][]valuation.SensitivityCell{
			{{WACC: 0.02, LongTermGrowth: 0.02, Err: calc.ErrDivisionByZero}},
			{{WACC: 0.10, LongTermGrowth: 0.02, PresentValue: 15168}},
		},
	}
	r.Checks = &validate.Result{
		Checkpoints: []validate.Checkpoint{{Name: "Balance sheet identity", Period: fy2023, Reported: 10, Calculated: 10, Status: validate.StatusMatch}},
		Outliers: []validate.Outlier{{
			Statement: "balance sheet", Label: "Inventory", Period: fy2023, Value: 0, Prior: 50, Change: -1, Reason: "dropped to zero",
		}},
		Benford: validate.BenfordResult{Total: 40, MAD: 0.0123, Level: validate.BenfordMedium},
	}

	md := r.Markdown()
	assert.Contains(t, md, "| 2.00% | n/a |")
	assert.Contains(t, md, "| 10.00% | 15,168.00 |")
	assert.Contains(t, md, "## Data checks")
	assert.Contains(t, md, "| 2023-12-31 | Balance sheet identity | 10.00 | 10.00 | 0.00 | MATCH |")
	assert.Contains(t, md, "- balance sheet, Inventory, 2023-12-31: dropped to zero (50.00 to 0.00)")
	assert.Contains(t, md, "Leading-digit test over 40 values: MAD 0.0123, medium deviation.")
	assert.NotContains(t, md, "## Growth")
}

func TestMarkdown_Growth(t *testing.T) {
	fy2022 := table.Date(2022, time.December, 31)
	r := testReport(t)
	r.Checks = &validate.Result{
		Growth: []validate.Growth{
			{Metric: valuation.MetricFreeCashFlow, YoY: table.NewSeries(table.Point{Period: fy2023, Value: 0.25}), CAGR: 0.25},
			{Metric: valuation.MetricNetWorkingCapital, YoY: table.NewSeries(table.Point{Period: fy2022, Value: -0.1}), CAGRErr: validate.ErrNonPositiveBase},
		},
		Benford: validate.BenfordResult{Level: validate.BenfordInsufficient},
	}

	md := r.Markdown()
	assert.Contains(t, md, "| Metric | 2022-12-31 | 2023-12-31 | CAGR |")
	assert.Contains(t, md, "| Free Cash Flow |  | 25.00% | 25.00% |")
	assert.Contains(t, md, "| Net Working Capital | -10.00% |  | n/a |")
	assert.Contains(t, md, "Leading-digit test: insufficient data.")
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(t).Render(&buf, FormatHTML))
	assert.Contains(t, buf.String(), "<h1>Valuation report: ACME</h1>")
	assert.Contains(t, buf.String(), "<strong>NPV:</strong>")
	assert.Contains(t, buf.String(), "<table>")
}

func TestRender_JSON(t *testing.T) {
	r := testReport(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatJSON))

	var doc struct {
		ID      string `json:"id"`
		Metrics []struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		} `json:"metrics"`
		Forecast struct {
			PresentValue float64 `json:"present_value"`
		} `json:"forecast"`
		Checks *struct{} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Nil(t, doc.Checks)
	assert.Equal(t, r.ID, doc.ID)
	require.Len(t, doc.Metrics, 2)
	assert.Empty(t, doc.Metrics[0].Error)
	assert.Contains(t, doc.Metrics[1].Error, "Net Receivables")
	assert.InDelta(t, 15167.998265, doc.Forecast.PresentValue, 1e-5)
}

func TestRender_Terminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testReport(t).Render(&buf, FormatTerminal))
	assert.True(t, strings.Contains(buf.String(), "ACME"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"markdown": FormatMarkdown,
		"MD":       FormatMarkdown,
		"html":     FormatHTML,
		"terminal": FormatTerminal,
		" json ":   FormatJSON,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestAmountAndRate(t *testing.T) {
	assert.Equal(t, "0.00", Amount(0))
	assert.Equal(t, "999.50", Amount(999.5))
	assert.Equal(t, "1,234,567.89", Amount(1234567.891))
	assert.Equal(t, "-12,345.00", Amount(-12345))
	assert.Equal(t, "10.00%", Rate(0.1))
	assert.Equal(t, "-2.50%", Rate(-0.025))
}

func TestSeriesMarkdown(t *testing.T) {
	fy2022 := table.Date(2022, time.December, 31)
	ev := table.NewSeries(table.Point{Period: fy2022, Value: 900}, table.Point{Period: fy2023, Value: 1200.5})
	nwc := table.NewSeries(table.Point{Period: fy2023, Value: -50})

	md := SeriesMarkdown("Balance sheet", NamedSeries{Name: "EV", Series: ev}, NamedSeries{Name: "NWC", Series: nwc})

	assert.Contains(t, md, "## Balance sheet")
	assert.Contains(t, md, "| Period | EV | NWC |")
	assert.Contains(t, md, "|---|---:|---:|")
	assert.Contains(t, md, "| 2022-12-31 | 900.00 |  |")
	assert.Contains(t, md, "| 2023-12-31 | 1,200.50 | -50.00 |")
	assert.Less(t, strings.Index(md, "2022-12-31"), strings.Index(md, "2023-12-31"))
}

func TestRenderMarkdown_RejectsJSON(t *testing.T) {
	var buf bytes.Buffer
	err := RenderMarkdown(&buf, "# x", FormatJSON, 0)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRender_JSONChecks(t *testing.T) {
	r := testReport(t)
	r.Checks = &validate.Result{
		Growth: []validate.Growth{
			{Metric: valuation.MetricFreeCashFlow, CAGR: 0.1},
			{Metric: valuation.MetricNetWorkingCapital, CAGRErr: validate.ErrNonPositiveBase},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, FormatJSON))

	var doc struct {
		Checks struct {
			Growth []struct {
				CAGR      *float64 `json:"cagr"`
				CAGRError string   `json:"cagr_error"`
			} `json:"growth"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Checks.Growth, 2)
	require.NotNil(t, doc.Checks.Growth[0].CAGR)
	assert.Equal(t, 0.1, *doc.Checks.Growth[0].CAGR)
	assert.Nil(t, doc.Checks.Growth[1].CAGR)
	assert.Contains(t, doc.Checks.Growth[1].CAGRError, "positive base")
}
