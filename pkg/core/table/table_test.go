package table

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fy2022 = Date(2022, time.December, 31)
	fy2023 = Date(2023, time.December, 31)
)

func TestTable_PeriodsSortedAndDeduplicated(t *testing.T) {
	tbl := New(fy2023, fy2022, fy2023.Add(5*time.Hour))

	assert.Equal(t, []time.Time{fy2022, fy2023}, tbl.Periods())

	latest, err := tbl.Latest()
	require.NoError(t, err)
	assert.Equal(t, fy2023, latest)
}

func TestTable_ValueMissing(t *testing.T) {
	tbl := New(fy2022, fy2023)
	require.NoError(t, tbl.SetRow("Inventory", 50, math.NaN()))

	v, err := tbl.Value("Inventory", fy2022)
	require.NoError(t, err)
	assert.Equal(t, 50.0, v)

	tests := []struct {
		name   string
		label  string
		period time.Time
	}{
		{name: "absent row", label: "Net Receivables", period: fy2022},
		{name: "absent cell", label: "Inventory", period: fy2023},
		{name: "label is case sensitive", label: "inventory", period: fy2022},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Value(tt.label, tt.period)
			var missing *MissingRowError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.label, missing.Label)
			assert.Equal(t, tt.period, missing.Period)
		})
	}
}

func TestTable_SetRowLengthMismatch(t *testing.T) {
	tbl := New(fy2022, fy2023)
	err := tbl.SetRow("Inventory", 1)
	assert.Error(t, err)
	assert.False(t, tbl.HasRow("Inventory"))
}

func TestTable_MapAbortsOnFirstError(t *testing.T) {
	tbl := New(fy2022, fy2023)
	require.NoError(t, tbl.SetRow("Inventory", 10, 20))

	s, err := tbl.Map(func(c Column) (float64, error) { return c.Value("Inventory") })
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, s.Values())

	_, err = tbl.Map(func(c Column) (float64, error) { return c.Value("Accounts Payable") })
	var missing *MissingRowError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, fy2022, missing.Period)
}

func TestTable_MapEmpty(t *testing.T) {
	_, err := New().Map(func(Column) (float64, error) { return 0, nil })
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestTable_Row(t *testing.T) {
	tbl := New(fy2022, fy2023)
	require.NoError(t, tbl.SetRow("Net Income", math.NaN(), 7))

	row, err := tbl.Row("Net Income")
	require.NoError(t, err)
	assert.Equal(t, []time.Time{fy2023}, row.Periods())

	_, err = tbl.Row("Revenue")
	assert.Error(t, err)
}
