package table

import (
	"sort"
	"time"
)

// Point is one period's value in a Series.
type Point struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// Series maps periods to values, ordered by period ascending.
// A Series is immutable: every method returns fresh data.
type Series struct {
	points []Point
}

// NewSeries builds a Series from points in any order. When two points share a
// period the later one wins.
func NewSeries(points ...Point) Series {
	byPeriod := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byPeriod[Period(p.Period)] = p.Value
	}
	out := make([]Point, 0, len(byPeriod))
	for period, v := range byPeriod {
		out = append(out, Point{Period: period, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })
	return Series{points: out}
}

// SeriesOf pairs periods with values positionally. Extra entries on either side
// are ignored.
func SeriesOf(periods []time.Time, values []float64) Series {
	n := min(len(periods), len(values))
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{Period: periods[i], Value: values[i]}
	}
	return NewSeries(points...)
}

func (s Series) Len() int { return len(s.points) }

// Points returns a copy of the series in period order.
func (s Series) Points() []Point {
	return append([]Point(nil), s.points...)
}

func (s Series) Periods() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Period
	}
	return out
}

func (s Series) Values() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Value
	}
	return out
}

// Get returns the value recorded for period.
func (s Series) Get(period time.Time) (float64, bool) {
	period = Period(period)
	i := sort.Search(len(s.points), func(i int) bool { return !s.points[i].Period.Before(period) })
	if i < len(s.points) && s.points[i].Period.Equal(period) {
		return s.points[i].Value, true
	}
	return 0, false
}

// Latest returns the maximum-dated point.
func (s Series) Latest() (Point, error) {
	if len(s.points) == 0 {
		return Point{}, ErrEmptySeries
	}
	return s.points[len(s.points)-1], nil
}

// Add sums two series period by period. Both must cover exactly the same periods.
func (s Series) Add(other Series) (Series, error) {
	if err := CheckAligned("series", s.Periods(), "addend", other.Periods()); err != nil {
		return Series{}, err
	}
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		out[i] = Point{Period: p.Period, Value: p.Value + other.points[i].Value}
	}
	return Series{points: out}, nil
}

// AddScalar adds v to every period.
func (s Series) AddScalar(v float64) Series {
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		out[i] = Point{Period: p.Period, Value: p.Value + v}
	}
	return Series{points: out}
}
