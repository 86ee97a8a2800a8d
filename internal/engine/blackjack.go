package engine

import (
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

// Enough floats for the worst case: two hands drawing minimum-value cards
// up to the stand threshold.
const blackjackFloats = 24

const standScore = 17

// cardValue maps a rank 1..13 to its blackjack value; ace counts 11 until
// Score reduces it.
func cardValue(rank int) int {
	switch {
	case rank == 1:
		return 11
	case rank > 10:
		return 10
	default:
		return rank
	}
}

// Score totals a hand, downgrading aces from 11 to 1 while the hand busts
// and an ace-as-11 remains.
func Score(hand []int) int {
	score := 0
	aces := 0
	for _, v := range hand {
		score += v
		if v == 11 {
			aces++
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

type blackjackResolution struct {
	win     bool
	push    bool
	natural bool
	reason  string
}

// resolveBlackjack applies standard bust/21/compare resolution. A natural
// (21 on the first two cards) beats everything but another natural, which
// pushes. A plain score tie with neither side bust pushes.
func resolveBlackjack(playerHand, dealerHand []int) blackjackResolution {
	playerScore := Score(playerHand)
	dealerScore := Score(dealerHand)
	playerNatural := playerScore == 21 && len(playerHand) == 2
	dealerNatural := dealerScore == 21 && len(dealerHand) == 2

	switch {
	case playerScore > 21:
		return blackjackResolution{reason: "player bust"}
	case playerNatural && dealerNatural:
		return blackjackResolution{push: true, reason: "both natural"}
	case playerNatural:
		return blackjackResolution{win: true, natural: true, reason: "blackjack"}
	case dealerScore > 21:
		return blackjackResolution{win: true, reason: "dealer bust"}
	case playerScore > dealerScore:
		return blackjackResolution{win: true, reason: "higher score"}
	case playerScore < dealerScore:
		return blackjackResolution{reason: "dealer wins"}
	default:
		return blackjackResolution{push: true, reason: "push"}
	}
}

// blackjack deals both hands from the draw's float stream: two cards each,
// alternating, then each hand hits until it reaches the stand threshold.
func (e *Engine) blackjack(d fairness.Draw) types.Outcome {
	fs := d.Floats(blackjackFloats)
	cursor := 0
	draw := func() int {
		rank := int(fs[cursor]*rankCount) + 1
		if rank > rankCount {
			rank = rankCount
		}
		cursor++
		return cardValue(rank)
	}

	playerHand := []int{draw()}
	dealerHand := []int{draw()}
	playerHand = append(playerHand, draw())
	dealerHand = append(dealerHand, draw())

	for Score(playerHand) < standScore && cursor < len(fs) {
		playerHand = append(playerHand, draw())
	}
	for Score(dealerHand) < standScore && cursor < len(fs) {
		dealerHand = append(dealerHand, draw())
	}

	res := resolveBlackjack(playerHand, dealerHand)

	var multiplier decimal.Decimal
	switch {
	case res.natural:
		multiplier = decimal.NewFromFloat(e.cfg.Blackjack.NaturalMultiplier)
	case res.win:
		multiplier = decimal.NewFromFloat(e.cfg.Blackjack.WinMultiplier)
	case res.push:
		multiplier = decimal.NewFromInt(1)
	default:
		multiplier = decimal.Zero
	}

	return types.Outcome{
		Game:       enum.GameTypeBlackjack,
		Multiplier: multiplier,
		Win:        res.win,
		Details: map[string]any{
			"player_hand":  playerHand,
			"player_score": Score(playerHand),
			"dealer_hand":  dealerHand,
			"dealer_score": Score(dealerHand),
			"reason":       res.reason,
			"push":         res.push,
		},
	}
}
