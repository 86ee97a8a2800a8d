package engine

import (
	"fmt"

	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

func (e *Engine) validateKeno(params Params) error {
	cfg := e.cfg.Keno
	picks := params.KenoPicks
	if len(picks) < 1 || len(picks) > cfg.MaxPicks {
		return fmt.Errorf("%w: keno needs 1..%d picks, got %d",
			types.ErrInvalidBetParameters, cfg.MaxPicks, len(picks))
	}
	seen := make(map[int]bool, len(picks))
	for _, n := range picks {
		if n < 1 || n > cfg.BoardSize || seen[n] {
			return fmt.Errorf("%w: keno picks must be unique numbers in 1..%d",
				types.ErrInvalidBetParameters, cfg.BoardSize)
		}
		seen[n] = true
	}
	return nil
}

// keno draws the house numbers without replacement from the board and pays
// on the hit ratio: zero hits pays nothing, any hit pays the base tier, and
// hitting more than half the picks pays the high tier.
func (e *Engine) keno(d fairness.Draw, params Params) types.Outcome {
	cfg := e.cfg.Keno
	drawn := d.Distinct(cfg.DrawCount, cfg.BoardSize)

	hits := countMatches(params.KenoPicks, drawn)

	var multiplier decimal.Decimal
	switch {
	case hits == 0:
		multiplier = decimal.Zero
	case 2*hits > len(params.KenoPicks):
		multiplier = decimal.NewFromFloat(cfg.HighMultiplier)
	default:
		multiplier = decimal.NewFromFloat(cfg.BaseMultiplier)
	}

	return types.Outcome{
		Game:       enum.GameTypeKeno,
		Multiplier: multiplier,
		Win:        multiplier.IsPositive(),
		Details: map[string]any{
			"picks": params.KenoPicks,
			"drawn": drawn,
			"hits":  hits,
		},
	}
}

func countMatches(picks, drawn []int) int {
	set := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		set[n] = true
	}
	m := 0
	for _, p := range picks {
		if set[p] {
			m++
		}
	}
	return m
}
