package engine

import (
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

// clampRoll keeps a roll inside [1,100]. Out-of-range values are clamped,
// never mis-scored.
func clampRoll(n int) int {
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

func rollFromFloat(f float64) int {
	return clampRoll(int(f*100) + 1)
}

// dice is a duel: two independent rolls in [1,100], strictly higher wins
// double the stake, an exact tie pushes the stake back.
func (e *Engine) dice(d fairness.Draw) types.Outcome {
	fs := d.Floats(2)
	playerRoll := rollFromFloat(fs[0])
	opponentRoll := rollFromFloat(fs[1])

	var multiplier decimal.Decimal
	win := false
	push := false
	switch {
	case playerRoll > opponentRoll:
		multiplier = decimal.NewFromInt(2)
		win = true
	case playerRoll == opponentRoll:
		multiplier = decimal.NewFromInt(1)
		push = true
	default:
		multiplier = decimal.Zero
	}

	return types.Outcome{
		Game:       enum.GameTypeDice,
		Multiplier: multiplier,
		Win:        win,
		Details: map[string]any{
			"player_roll":   playerRoll,
			"opponent_roll": opponentRoll,
			"push":          push,
		},
	}
}

// ResolveDice settles a duel from externally supplied rolls, clamping both
// to [1,100]. Used by the offline verifier and by duels where the opponent
// roll comes from the opponent's own fairness stream.
func ResolveDice(playerRoll, opponentRoll int) (win bool, push bool) {
	playerRoll = clampRoll(playerRoll)
	opponentRoll = clampRoll(opponentRoll)
	if playerRoll == opponentRoll {
		return false, true
	}
	return playerRoll > opponentRoll, false
}
