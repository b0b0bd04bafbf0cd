package validate

import (
	"errors"
	"fmt"
	"math"

	"corporate_valuation/pkg/core/table"
)

// ErrNonPositiveBase is returned by CAGR when the first value is not positive
// or the last is negative; the compound rate is undefined.
var ErrNonPositiveBase = errors.New("validate: compound growth needs a positive base")

// daysPerYear converts period spacing to years.
const daysPerYear = 365.25

// Growth is the historical growth of one metric.
type Growth struct {
	Metric  string
	YoY     table.Series
	CAGR    float64
	CAGRErr error
}

// YoY returns the growth rate of every period against the one before it.
// The first period, and periods whose prior value is zero, have no rate.
//
// FORMULA: g(t) = (v(t) − v(t−1)) / |v(t−1)|
func YoY(s table.Series) table.Series {
	points := s.Points()
	out := make([]table.Point, 0, len(points))
	for i := 1; i < len(points); i++ {
		prior := points[i-1].Value
		if prior == 0 {
			continue
		}
		out = append(out, table.Point{
			Period: points[i].Period,
			Value:  (points[i].Value - prior) / math.Abs(prior),
		})
	}
	return table.NewSeries(out...)
}

// CAGR is the compound annual growth rate from the first to the last point,
// with the span measured in days.
//
// FORMULA: CAGR = (v(end) / v(start)) ^ (1 / years) − 1
func CAGR(s table.Series) (float64, error) {
	points := s.Points()
	if len(points) < 2 {
		return 0, fmt.Errorf("compound growth over %d periods: %w", len(points), table.ErrEmptySeries)
	}
	first, last := points[0], points[len(points)-1]
	if first.Value <= 0 || last.Value < 0 {
		return 0, ErrNonPositiveBase
	}
	years := last.Period.Sub(first.Period).Hours() / 24 / daysPerYear
	return math.Pow(last.Value/first.Value, 1/years) - 1, nil
}

// MeasureGrowth computes YoY and CAGR for a named series.
func MeasureGrowth(metric string, s table.Series) Growth {
	cagr, err := CAGR(s)
	return Growth{Metric: metric, YoY: YoY(s), CAGR: cagr, CAGRErr: err}
}
