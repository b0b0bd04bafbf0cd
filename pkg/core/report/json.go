package report

import (
	"time"

	"corporate_valuation/pkg/core/table"
	"corporate_valuation/pkg/core/validate"
	"corporate_valuation/pkg/core/valuation"
)

type jsonMetric struct {
	Name   string        `json:"name"`
	Values []table.Point `json:"values,omitempty"`
	Error  string        `json:"error,omitempty"`
}

type jsonCell struct {
	valuation.SensitivityCell
	Error string `json:"error,omitempty"`
}

type jsonSensitivity struct {
	WACCs   []float64    `json:"waccs"`
	Growths []float64    `json:"growths"`
	Cells   [][]jsonCell `json:"cells"`
}

type jsonGrowth struct {
	Metric    string        `json:"metric"`
	YoY       []table.Point `json:"yoy"`
	CAGR      *float64      `json:"cagr,omitempty"`
	CAGRError string        `json:"cagr_error,omitempty"`
}

type jsonChecks struct {
	Checkpoints []validate.Checkpoint  `json:"checkpoints"`
	Outliers    []validate.Outlier     `json:"outliers,omitempty"`
	Benford     validate.BenfordResult `json:"benford"`
	Growth      []jsonGrowth           `json:"growth,omitempty"`
}

type jsonReport struct {
	ID            string                `json:"id"`
	Company       string                `json:"company,omitempty"`
	Scenario      string                `json:"scenario,omitempty"`
	GeneratedAt   time.Time             `json:"generated_at"`
	Assumptions   valuation.Assumptions `json:"assumptions"`
	Metrics       []jsonMetric          `json:"metrics"`
	Forecast      *valuation.Forecast   `json:"forecast,omitempty"`
	ForecastError string                `json:"forecast_error,omitempty"`
	Sensitivity   *jsonSensitivity      `json:"sensitivity,omitempty"`
	Checks        *jsonChecks           `json:"checks,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// document flattens the report for JSON; errors become strings.
func (r *Report) document() jsonReport {
	doc := jsonReport{
		ID:            r.ID,
		Company:       r.Company,
		Scenario:      r.Scenario,
		GeneratedAt:   r.GeneratedAt,
		Assumptions:   r.Summary.Assumptions,
		Forecast:      r.Summary.Forecast,
		ForecastError: errString(r.Summary.ForecastErr),
	}
	for _, m := range r.Summary.Metrics {
		doc.Metrics = append(doc.Metrics, jsonMetric{Name: m.Name, Values: m.Series.Points(), Error: errString(m.Err)})
	}
	if g := r.Sensitivity; g != nil {
		s := &jsonSensitivity{WACCs: g.WACCs, Growths: g.Growths, Cells: make([][]jsonCell, len(g.Cells))}
		for i, row := range g.Cells {
			s.Cells[i] = make([]jsonCell, len(row))
			for j, cell := range row {
				s.Cells[i][j] = jsonCell{SensitivityCell: cell, Error: errString(cell.Err)}
			}
		}
		doc.Sensitivity = s
	}
	if c := r.Checks; c != nil {
		jc := &jsonChecks{Checkpoints: c.Checkpoints, Outliers: c.Outliers, Benford: c.Benford}
		for _, g := range c.Growth {
			jg := jsonGrowth{Metric: g.Metric, YoY: g.YoY.Points(), CAGRError: errString(g.CAGRErr)}
			if g.CAGRErr == nil {
				cagr := g.CAGR
				jg.CAGR = &cagr
			}
			jc.Growth = append(jc.Growth, jg)
		}
		doc.Checks = jc
	}
	return doc
}
