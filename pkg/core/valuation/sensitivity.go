package valuation

import (
	"context"
	"errors"

	"corporate_valuation/pkg/core/table"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyAxis is returned when a sensitivity grid has no WACC or no growth values.
var ErrEmptyAxis = errors.New("valuation: sensitivity axis is empty")

// SensitivityCell is the DCF value for one (WACC, long-term growth) pair.
// Err is set instead of PresentValue when that pair has no valuation.
type SensitivityCell struct {
	WACC           float64 `json:"wacc"`
	LongTermGrowth float64 `json:"long_term_growth"`
	PresentValue   float64 `json:"present_value"`
	Err            error   `json:"-"`
}

// SensitivityGrid is indexed [wacc][growth].
type SensitivityGrid struct {
	WACCs   []float64           `json:"waccs"`
	Growths []float64           `json:"growths"`
	Cells   [][]SensitivityCell `json:"cells"`
}

// Steps returns n values either side of center, step apart, in ascending order.
func Steps(center, step float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	out := make([]float64, 0, 2*n+1)
	for i := -n; i <= n; i++ {
		out = append(out, center+float64(i)*step)
	}
	return out
}

// Sensitivity values fcf at every WACC × long-term-growth pair, holding the
// short-term growth of base fixed. Cells are computed concurrently, at most
// limit at a time (no bound when limit <= 0). A failing cell does not fail the
// grid; only cancellation of ctx does.
func Sensitivity(ctx context.Context, fcf table.Series, base Assumptions, waccs, growths []float64, limit int) (SensitivityGrid, error) {
	if len(waccs) == 0 || len(growths) == 0 {
		return SensitivityGrid{}, ErrEmptyAxis
	}
	log := zerolog.Ctx(ctx).With().Str("component", "sensitivity").Logger()

	grid := SensitivityGrid{
		WACCs:   append([]float64(nil), waccs...),
		Growths: append([]float64(nil), growths...),
		Cells:   make([][]SensitivityCell, len(waccs)),
	}
	for i := range grid.Cells {
		grid.Cells[i] = make([]SensitivityCell, len(growths))
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, wacc := range grid.WACCs {
		for j, growth := range grid.Growths {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				a := base
				a.WACC = wacc
				a.LongTermGrowth = growth

				pv, err := DCF(fcf, a)
				if err != nil {
					log.Debug().Err(err).Float64("wacc", wacc).Float64("growth", growth).Msg("cell has no valuation")
				}
				grid.Cells[i][j] = SensitivityCell{WACC: wacc, LongTermGrowth: growth, PresentValue: pv, Err: err}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return SensitivityGrid{}, err
	}
	log.Debug().Int("cells", len(waccs)*len(growths)).Msg("sensitivity grid computed")
	return grid, nil
}
