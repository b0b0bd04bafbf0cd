package table

import (
	"fmt"
	"time"
)

// PeriodLayout is the textual form of a reporting period.
const PeriodLayout = "2006-01-02"

// Period truncates t to a calendar date in UTC. Tables and series key every
// value by the result, so two timestamps on the same day name the same period.
func Period(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a period from its calendar components.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParsePeriod accepts ISO dates (2023-12-31) and US statement dates (12/31/2023).
func ParsePeriod(s string) (time.Time, error) {
	for _, layout := range []string{PeriodLayout, "1/2/2006", "01/02/2006", "Jan 2, 2006", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006" {
				// Bare fiscal years close on December 31st.
				return Date(t.Year(), time.December, 31), nil
			}
			return Period(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("table: unrecognised period %q", s)
}

// FormatPeriod renders a period with PeriodLayout.
func FormatPeriod(t time.Time) string {
	return t.Format(PeriodLayout)
}
