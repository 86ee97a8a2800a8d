package engine

import (
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

// slots spins three reels. Three of a kind pays the jackpot multiplier, two
// adjacent equal symbols (reel 0==1 or 1==2, not 0==2 alone) pay the small
// multiplier, anything else pays nothing.
func (e *Engine) slots(d fairness.Draw) types.Outcome {
	symbols := e.cfg.Slots.Symbols
	fs := d.Floats(3)

	reels := make([]string, 3)
	for i, f := range fs {
		idx := int(f * float64(len(symbols)))
		if idx >= len(symbols) {
			idx = len(symbols) - 1
		}
		reels[i] = symbols[idx]
	}

	var multiplier decimal.Decimal
	jackpot := false
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		multiplier = decimal.NewFromFloat(e.cfg.Slots.JackpotMultiplier)
		jackpot = true
	case reels[0] == reels[1] || reels[1] == reels[2]:
		multiplier = decimal.NewFromFloat(e.cfg.Slots.TwoMatchMultiplier)
	default:
		multiplier = decimal.Zero
	}

	return types.Outcome{
		Game:       enum.GameTypeSlots,
		Multiplier: multiplier,
		Win:        multiplier.IsPositive(),
		Details: map[string]any{
			"reels":   reels,
			"jackpot": jackpot,
		},
	}
}

// ResolveSlots grades externally supplied reels, for the offline verifier.
func ResolveSlots(reels []string) (threeOfAKind, twoAdjacent bool) {
	if len(reels) != 3 {
		return false, false
	}
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return true, false
	}
	return false, reels[0] == reels[1] || reels[1] == reels[2]
}
