// Package table holds the financial-statement table the valuation formulas read
// from: line items as rows, reporting periods as columns.
package table

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Table is a statement keyed by line-item label and reporting period.
// Labels are exact keys; "Total stockholders' equity" and
// "Total Stockholders' Equity" are different rows.
type Table struct {
	periods []time.Time
	labels  []string
	cells   map[string]map[time.Time]float64
}

// New creates an empty table with the given columns.
func New(periods ...time.Time) *Table {
	t := &Table{cells: make(map[string]map[time.Time]float64)}
	for _, p := range periods {
		t.addPeriod(p)
	}
	return t
}

func (t *Table) addPeriod(p time.Time) time.Time {
	p = Period(p)
	i := sort.Search(len(t.periods), func(i int) bool { return !t.periods[i].Before(p) })
	if i < len(t.periods) && t.periods[i].Equal(p) {
		return p
	}
	t.periods = append(t.periods, time.Time{})
	copy(t.periods[i+1:], t.periods[i:])
	t.periods[i] = p
	return p
}

// AddRow declares a row without values. Lookups on it still fail until a
// cell is set.
func (t *Table) AddRow(label string) {
	if _, ok := t.cells[label]; ok {
		return
	}
	t.cells[label] = make(map[time.Time]float64)
	t.labels = append(t.labels, label)
}

// Set records a value, adding the row and the period column when needed.
// NaN clears the cell.
func (t *Table) Set(label string, period time.Time, v float64) {
	p := t.addPeriod(period)
	t.AddRow(label)
	row := t.cells[label]
	if math.IsNaN(v) {
		delete(row, p)
		return
	}
	row[p] = v
}

// SetRow records one value per existing period, in period order. NaN entries
// leave the cell absent.
func (t *Table) SetRow(label string, values ...float64) error {
	if len(values) != len(t.periods) {
		return fmt.Errorf("table: row %q has %d values for %d periods", label, len(values), len(t.periods))
	}
	for i, v := range values {
		t.Set(label, t.periods[i], v)
	}
	return nil
}

// Periods returns the columns in ascending order.
func (t *Table) Periods() []time.Time {
	return append([]time.Time(nil), t.periods...)
}

// Labels returns the row labels in insertion order.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

func (t *Table) HasRow(label string) bool {
	_, ok := t.cells[label]
	return ok
}

// Latest returns the most recent period.
func (t *Table) Latest() (time.Time, error) {
	if len(t.periods) == 0 {
		return time.Time{}, ErrEmptySeries
	}
	return t.periods[len(t.periods)-1], nil
}

// Value looks up one cell. An absent row or an absent cell is a *MissingRowError.
func (t *Table) Value(label string, period time.Time) (float64, error) {
	p := Period(period)
	row, ok := t.cells[label]
	if !ok {
		return 0, &MissingRowError{Label: label, Period: p}
	}
	v, ok := row[p]
	if !ok {
		return 0, &MissingRowError{Label: label, Period: p}
	}
	return v, nil
}

// Row returns the row as a Series over the periods where it has a value.
func (t *Table) Row(label string) (Series, error) {
	row, ok := t.cells[label]
	if !ok {
		return Series{}, &MissingRowError{Label: label}
	}
	points := make([]Point, 0, len(row))
	for p, v := range row {
		points = append(points, Point{Period: p, Value: v})
	}
	return NewSeries(points...), nil
}

// Column is a single period's slice of a table.
type Column struct {
	table  *Table
	period time.Time
}

// Column returns the slice of t for period.
func (t *Table) Column(period time.Time) Column {
	return Column{table: t, period: Period(period)}
}

func (c Column) Period() time.Time { return c.period }

func (c Column) Value(label string) (float64, error) {
	return c.table.Value(label, c.period)
}

// Values looks up several labels at once, stopping at the first absent one.
func (c Column) Values(labels ...string) ([]float64, error) {
	out := make([]float64, len(labels))
	for i, label := range labels {
		v, err := c.Value(label)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Reducer collapses one column to a number.
type Reducer func(Column) (float64, error)

// Map applies fn to every column in period order. The first failure aborts the
// whole map; there are no partial results.
func (t *Table) Map(fn Reducer) (Series, error) {
	if len(t.periods) == 0 {
		return Series{}, ErrEmptySeries
	}
	points := make([]Point, len(t.periods))
	for i, p := range t.periods {
		v, err := fn(t.Column(p))
		if err != nil {
			return Series{}, err
		}
		points[i] = Point{Period: p, Value: v}
	}
	return Series{points: points}, nil
}
