package valuation

import (
	"context"
	"testing"

	"corporate_valuation/pkg/core/calc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.08, 0.09, 0.10, 0.11, 0.12}, Steps(0.10, 0.01, 2), 1e-12)
	assert.Equal(t, []float64{0.1}, Steps(0.1, 0.01, 0))
}

func TestSensitivity_MatchesSequential(t *testing.T) {
	waccs := []float64{0.08, 0.09, 0.10, 0.11}
	growths := []float64{0.01, 0.02, 0.03}
	fcf := fcfSeries(1000)

	grid, err := Sensitivity(context.Background(), fcf, baseCase, waccs, growths, 2)
	require.NoError(t, err)
	require.Len(t, grid.Cells, len(waccs))

	for i, w := range waccs {
		require.Len(t, grid.Cells[i], len(growths))
		for j, g := range growths {
			a := baseCase
			a.WACC, a.LongTermGrowth = w, g
			want, err := DCF(fcf, a)
			require.NoError(t, err)

			cell := grid.Cells[i][j]
			assert.NoError(t, cell.Err)
			assert.Equal(t, w, cell.WACC)
			assert.Equal(t, g, cell.LongTermGrowth)
			assert.Equal(t, want, cell.PresentValue, "concurrent result must equal sequential result")
		}
	}
}

func TestSensitivity_CellErrorsDoNotFailGrid(t *testing.T) {
	grid, err := Sensitivity(context.Background(), fcfSeries(1000), baseCase, []float64{0.02, 0.10}, []float64{0.02}, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, grid.Cells[0][0].Err, calc.ErrDivisionByZero)
	assert.NoError(t, grid.Cells[1][0].Err)
}

func TestSensitivity_EmptyAxis(t *testing.T) {
	_, err := Sensitivity(context.Background(), fcfSeries(1000), baseCase, nil, []float64{0.02}, 0)
	assert.ErrorIs(t, err, ErrEmptyAxis)
}

func TestSensitivity_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sensitivity(ctx, fcfSeries(1000), baseCase, Steps(0.10, 0.005, 4), Steps(0.02, 0.005, 2), 1)
	assert.ErrorIs(t, err, context.Canceled)
}
