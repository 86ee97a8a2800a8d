package engine

import (
	"fmt"
	"math"

	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

const minAutoCashout = 1.01

func (e *Engine) validateCrash(params Params) error {
	if params.AutoCashout < minAutoCashout || params.AutoCashout > e.cfg.Crash.MaxMultiplier {
		return fmt.Errorf("%w: auto cashout must be in [%.2f,%.2f], got %v",
			types.ErrInvalidBetParameters, minAutoCashout, e.cfg.Crash.MaxMultiplier, params.AutoCashout)
	}
	return nil
}

// CrashPoint maps a [0,1) float to a crash multiplier >= 1.00. A slice of
// the float range equal to the house edge crashes instantly at 1.00; the
// rest follows the exponential tail (1-edge)/(1-f), floored to 2 decimals.
func CrashPoint(f, houseEdge, maxMultiplier float64) float64 {
	if f < houseEdge {
		return 1.00
	}
	point := (1 - houseEdge) / (1 - f)
	point = math.Floor(point*100) / 100
	if point < 1 {
		point = 1
	}
	if point > maxMultiplier {
		point = maxMultiplier
	}
	return point
}

// crash settles a pre-committed auto-cashout against the drawn crash point:
// the player wins bet x auto_cashout when the round survives to their
// target, and loses the stake otherwise.
func (e *Engine) crash(d fairness.Draw, params Params) types.Outcome {
	f := d.Floats(1)[0]
	point := CrashPoint(f, e.cfg.Crash.HouseEdge, e.cfg.Crash.MaxMultiplier)

	auto := decimal.NewFromFloat(params.AutoCashout).Truncate(2)
	win := point >= params.AutoCashout

	multiplier := decimal.Zero
	if win {
		multiplier = auto
	}

	return types.Outcome{
		Game:       enum.GameTypeCrash,
		Multiplier: multiplier,
		Win:        win,
		Details: map[string]any{
			"crash_point":  point,
			"auto_cashout": auto.InexactFloat64(),
		},
	}
}
