package table

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptySeries is returned when an operation needs at least one period.
var ErrEmptySeries = errors.New("table: series has no periods")

// MissingRowError reports a line item that is absent from a table for a period.
// A missing row and a missing cell are the same failure for the formulas.
type MissingRowError struct {
	Label  string
	Period time.Time
}

func (e *MissingRowError) Error() string {
	if e.Period.IsZero() {
		return fmt.Sprintf("table: missing row %q", e.Label)
	}
	return fmt.Sprintf("table: missing row %q for period %s", e.Label, FormatPeriod(e.Period))
}

// ShapeMismatchError reports two period-keyed inputs whose period sets differ.
type ShapeMismatchError struct {
	Left, Right string
	// OnlyLeft lists periods present in Left but not in Right, and OnlyRight the reverse.
	OnlyLeft  []time.Time
	OnlyRight []time.Time
}

func (e *ShapeMismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table: periods of %s and %s do not align", e.Left, e.Right)
	if len(e.OnlyLeft) > 0 {
		fmt.Fprintf(&b, "; only in %s: %s", e.Left, formatPeriods(e.OnlyLeft))
	}
	if len(e.OnlyRight) > 0 {
		fmt.Fprintf(&b, "; only in %s: %s", e.Right, formatPeriods(e.OnlyRight))
	}
	return b.String()
}

func formatPeriods(periods []time.Time) string {
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = FormatPeriod(p)
	}
	return strings.Join(out, ", ")
}

// CheckAligned returns a *ShapeMismatchError unless left and right hold exactly
// the same periods. Both slices must be sorted ascending.
func CheckAligned(leftName string, left []time.Time, rightName string, right []time.Time) error {
	var onlyLeft, onlyRight []time.Time
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right) || (i < len(left) && left[i].Before(right[j])):
			onlyLeft = append(onlyLeft, left[i])
			i++
		case i >= len(left) || right[j].Before(left[i]):
			onlyRight = append(onlyRight, right[j])
			j++
		default:
			i++
			j++
		}
	}
	if len(onlyLeft) == 0 && len(onlyRight) == 0 {
		return nil
	}
	return &ShapeMismatchError{Left: leftName, Right: rightName, OnlyLeft: onlyLeft, OnlyRight: onlyRight}
}
