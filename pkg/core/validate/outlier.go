package validate

import (
	"fmt"
	"math"
	"time"

	"corporate_valuation/pkg/core/table"
)

// Outlier is a suspicious period-over-period move in one row.
type Outlier struct {
	Statement string    `json:"statement"`
	Label     string    `json:"label"`
	Period    time.Time `json:"period"`
	Value     float64   `json:"value"`
	Prior     float64   `json:"prior"`
	Change    float64   `json:"change"`
	Reason    string    `json:"reason"`
}

// Outliers flags rows that drop to zero from a non-zero value, which usually
// means a cell failed to load, and rows whose relative change exceeds
// threshold (1.0 = 100%). A threshold <= 0 only reports drops to zero.
func Outliers(statement string, t *table.Table, threshold float64) []Outlier {
	var out []Outlier
	periods := t.Periods()
	for _, label := range t.Labels() {
		for i := 1; i < len(periods); i++ {
			current, err := t.Value(label, periods[i])
			if err != nil {
				continue
			}
			prior, err := t.Value(label, periods[i-1])
			if err != nil || prior == 0 {
				continue
			}
			change := (current - prior) / math.Abs(prior)

			o := Outlier{Statement: statement, Label: label, Period: periods[i], Value: current, Prior: prior, Change: change}
			switch {
			case current == 0:
				o.Reason = "dropped to zero"
			case threshold > 0 && math.Abs(change) > threshold:
				o.Reason = fmt.Sprintf("changed %+.1f%%, above %.0f%%", change*100, threshold*100)
			default:
				continue
			}
			out = append(out, o)
		}
	}
	return out
}
