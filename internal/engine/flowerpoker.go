package engine

import (
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

const (
	handSize  = 5
	rankCount = 13
)

// HandStrength grades a 5-card hand by its count of distinct ranks: fewer
// distinct ranks means more pairs and trips, hence a stronger hand.
func HandStrength(hand []int) int {
	distinct := make(map[int]bool, len(hand))
	for _, r := range hand {
		distinct[r] = true
	}
	switch len(distinct) {
	case 1:
		return 10 // five of a kind
	case 2:
		return 8 // four of a kind or full house
	case 3:
		return 6 // three of a kind or two pair
	case 4:
		return 4 // one pair
	default:
		return 2 // high card
	}
}

// flowerPoker deals two independent 5-card hands of ranks and compares
// strengths; an exact tie pushes.
func (e *Engine) flowerPoker(d fairness.Draw) types.Outcome {
	fs := d.Floats(handSize * 2)

	deal := func(offset int) []int {
		hand := make([]int, handSize)
		for i := 0; i < handSize; i++ {
			r := int(fs[offset+i]*rankCount) + 1
			if r > rankCount {
				r = rankCount
			}
			hand[i] = r
		}
		return hand
	}

	playerHand := deal(0)
	opponentHand := deal(handSize)
	playerStrength := HandStrength(playerHand)
	opponentStrength := HandStrength(opponentHand)

	var multiplier decimal.Decimal
	win := false
	push := false
	switch {
	case playerStrength > opponentStrength:
		multiplier = decimal.NewFromInt(2)
		win = true
	case playerStrength == opponentStrength:
		multiplier = decimal.NewFromInt(1)
		push = true
	default:
		multiplier = decimal.Zero
	}

	return types.Outcome{
		Game:       enum.GameTypeFlowerPoker,
		Multiplier: multiplier,
		Win:        win,
		Details: map[string]any{
			"player_hand":       playerHand,
			"player_strength":   playerStrength,
			"opponent_hand":     opponentHand,
			"opponent_strength": opponentStrength,
			"push":              push,
		},
	}
}
