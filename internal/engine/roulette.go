package engine

import (
	"fmt"

	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

const (
	RouletteBetNumber  = "number"
	RouletteBetColor   = "color"
	RouletteBetOddEven = "odd_even"
)

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

func validateRoulette(params Params) error {
	switch params.RouletteBet {
	case RouletteBetNumber:
		if params.RouletteNumber < 0 || params.RouletteNumber > 36 {
			return fmt.Errorf("%w: roulette number must be in 0..36, got %d",
				types.ErrInvalidBetParameters, params.RouletteNumber)
		}
	case RouletteBetColor:
		if params.RouletteChoice != "red" && params.RouletteChoice != "black" {
			return fmt.Errorf("%w: roulette color must be red or black, got %q",
				types.ErrInvalidBetParameters, params.RouletteChoice)
		}
	case RouletteBetOddEven:
		if params.RouletteChoice != "odd" && params.RouletteChoice != "even" {
			return fmt.Errorf("%w: roulette choice must be odd or even, got %q",
				types.ErrInvalidBetParameters, params.RouletteChoice)
		}
	default:
		return fmt.Errorf("%w: unknown roulette bet kind %q",
			types.ErrInvalidBetParameters, params.RouletteBet)
	}
	return nil
}

// roulette spins 0..36 from one draw. Straight numbers pay 36x, color and
// parity pay 2x; zero is neither red nor odd, so it loses both.
func (e *Engine) roulette(d fairness.Draw, params Params) types.Outcome {
	f := d.Floats(1)[0]
	spin := int(f * 37)
	if spin > 36 {
		spin = 36
	}

	win := false
	multiplier := decimal.Zero
	switch params.RouletteBet {
	case RouletteBetNumber:
		if spin == params.RouletteNumber {
			win = true
			multiplier = decimal.NewFromInt(36)
		}
	case RouletteBetColor:
		if spin != 0 {
			color := "black"
			if redNumbers[spin] {
				color = "red"
			}
			if color == params.RouletteChoice {
				win = true
				multiplier = decimal.NewFromInt(2)
			}
		}
	case RouletteBetOddEven:
		if spin != 0 {
			parity := "even"
			if spin%2 == 1 {
				parity = "odd"
			}
			if parity == params.RouletteChoice {
				win = true
				multiplier = decimal.NewFromInt(2)
			}
		}
	}

	return types.Outcome{
		Game:       enum.GameTypeRoulette,
		Multiplier: multiplier,
		Win:        win,
		Details: map[string]any{
			"spin":     spin,
			"bet_kind": params.RouletteBet,
		},
	}
}
