package validate

import (
	"math"
	"strconv"
)

// benfordExpected is the expected frequency of leading digits 1-9.
var benfordExpected = [10]float64{
	1: 0.30103,
	2: 0.17609,
	3: 0.12494,
	4: 0.09691,
	5: 0.07918,
	6: 0.06695,
	7: 0.05799,
	8: 0.05115,
	9: 0.04576,
}

// Benford conformity levels.
const (
	BenfordInsufficient = "insufficient data"
	BenfordLow          = "low deviation"
	BenfordMedium       = "medium deviation"
	BenfordHigh         = "high deviation"
)

// BenfordResult is a leading-digit analysis.
type BenfordResult struct {
	DigitCounts [10]int `json:"digit_counts"` // index 0 unused
	Total       int     `json:"total"`
	MAD         float64 `json:"mad"` // mean absolute deviation from the expected frequencies
	Flagged     bool    `json:"flagged"`
	Level       string  `json:"level"`
}

// Benford compares the leading digits of values with Benford's law. Values
// with magnitude below 1 are ignored.
//
// MAD thresholds are looser than audit practice because statements are short:
// above 0.015 is flagged, above 0.010 is a medium deviation.
func Benford(values []float64) BenfordResult {
	var r BenfordResult
	for _, v := range values {
		abs := math.Abs(v)
		if abs < 1 || math.IsInf(abs, 0) || math.IsNaN(abs) {
			continue
		}
		for _, c := range strconv.FormatFloat(abs, 'f', -1, 64) {
			if c >= '1' && c <= '9' {
				r.DigitCounts[c-'0']++
				r.Total++
				break
			}
		}
	}
	if r.Total == 0 {
		r.Level = BenfordInsufficient
		return r
	}

	sum := 0.0
	for d := 1; d <= 9; d++ {
		sum += math.Abs(float64(r.DigitCounts[d])/float64(r.Total) - benfordExpected[d])
	}
	r.MAD = sum / 9

	switch {
	case r.MAD > 0.015:
		r.Level = BenfordHigh
		r.Flagged = true
	case r.MAD > 0.010:
		r.Level = BenfordMedium
	default:
		r.Level = BenfordLow
	}
	return r
}
