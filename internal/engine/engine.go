// Package engine turns fairness draws into game settlements. Every game is
// a pure function of the draw and its parameters: same inputs, same outcome.
package engine

import (
	"fmt"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
)

// Params carries the per-game bet parameters. Only the fields for the game
// being played are read; Validate rejects malformed ones up front.
type Params struct {
	KenoPicks      []int   `json:"keno_picks,omitempty"`
	AutoCashout    float64 `json:"auto_cashout,omitempty"`
	RouletteBet    string  `json:"roulette_bet,omitempty"`    // number | color | odd_even
	RouletteNumber int     `json:"roulette_number,omitempty"` // 0..36
	RouletteChoice string  `json:"roulette_choice,omitempty"` // red | black | odd | even
}

type Engine struct {
	cfg config.GamesConfig
}

func New(cfg config.GamesConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Validate checks bet and parameters without touching any state. It must be
// called (and pass) before any balance mutation.
func (e *Engine) Validate(game enum.GameType, bet int64, params Params) error {
	if bet <= 0 {
		return fmt.Errorf("%w: bet must be positive, got %d", types.ErrInvalidBetParameters, bet)
	}
	if !game.Valid() {
		return fmt.Errorf("%w: unknown game %q", types.ErrInvalidBetParameters, game)
	}

	switch game {
	case enum.GameTypeKeno:
		return e.validateKeno(params)
	case enum.GameTypeCrash:
		return e.validateCrash(params)
	case enum.GameTypeRoulette:
		return validateRoulette(params)
	default:
		return nil
	}
}

// Settle maps one draw to a settlement for the given game. Deterministic:
// replaying the same draw and parameters reproduces the outcome exactly.
func (e *Engine) Settle(game enum.GameType, d fairness.Draw, bet int64, params Params) (types.Outcome, error) {
	if err := e.Validate(game, bet, params); err != nil {
		return types.Outcome{}, err
	}

	switch game {
	case enum.GameTypeDice:
		return e.dice(d), nil
	case enum.GameTypeSlots:
		return e.slots(d), nil
	case enum.GameTypeKeno:
		return e.keno(d, params), nil
	case enum.GameTypeCrash:
		return e.crash(d, params), nil
	case enum.GameTypeFlowerPoker:
		return e.flowerPoker(d), nil
	case enum.GameTypeBlackjack:
		return e.blackjack(d), nil
	case enum.GameTypeRoulette:
		return e.roulette(d, params), nil
	default:
		return types.Outcome{}, fmt.Errorf("%w: unknown game %q", types.ErrInvalidBetParameters, game)
	}
}
