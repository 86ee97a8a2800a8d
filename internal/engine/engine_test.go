package engine

import (
	"testing"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServerSeed = "1f8b5c9e2d74a0c3b6e1f4d7a9c2e5b8d1f4a7c0e3b6d9f2a5c8e1b4d7f0a3c6"

func testEngine() *Engine {
	return New(config.Default().Engine.Games)
}

func testDraw(t *testing.T, nonce uint64) fairness.Draw {
	t.Helper()
	d, err := fairness.At(testServerSeed, "tester", nonce)
	require.NoError(t, err)
	return d
}

func TestValidateRejectsBadBets(t *testing.T) {
	e := testEngine()

	err := e.Validate(enum.GameTypeDice, 0, Params{})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameTypeDice, -100, Params{})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameType("baccarat"), 100, Params{})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)
}

func TestSettleDeterministic(t *testing.T) {
	e := testEngine()
	params := map[enum.GameType]Params{
		enum.GameTypeKeno:     {KenoPicks: []int{4, 12, 23, 31}},
		enum.GameTypeCrash:    {AutoCashout: 2.0},
		enum.GameTypeRoulette: {RouletteBet: RouletteBetColor, RouletteChoice: "red"},
	}

	for _, game := range enum.AllGameTypes {
		d := testDraw(t, 11)
		first, err := e.Settle(game, d, 1000, params[game])
		require.NoError(t, err, "game %s", game)
		second, err := e.Settle(game, d, 1000, params[game])
		require.NoError(t, err, "game %s", game)

		assert.Equal(t, first, second, "game %s", game)
		assert.Equal(t, game, first.Game)
	}
}

func TestDiceRollsMatchDraw(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 1)

	out, err := e.Settle(enum.GameTypeDice, d, 500, Params{})
	require.NoError(t, err)

	fs := d.Floats(2)
	assert.Equal(t, rollFromFloat(fs[0]), out.Details["player_roll"])
	assert.Equal(t, rollFromFloat(fs[1]), out.Details["opponent_roll"])

	player := out.Details["player_roll"].(int)
	opponent := out.Details["opponent_roll"].(int)
	switch {
	case player > opponent:
		assert.True(t, out.Win)
		assert.Equal(t, int64(1000), out.Payout(500))
	case player == opponent:
		assert.False(t, out.Win)
		assert.Equal(t, int64(500), out.Payout(500))
	default:
		assert.False(t, out.Win)
		assert.Equal(t, int64(0), out.Payout(500))
	}
}

func TestResolveDice(t *testing.T) {
	win, push := ResolveDice(80, 50)
	assert.True(t, win)
	assert.False(t, push)

	win, push = ResolveDice(50, 50)
	assert.False(t, win)
	assert.True(t, push)

	win, push = ResolveDice(12, 90)
	assert.False(t, win)
	assert.False(t, push)

	// Out-of-range rolls clamp to the board instead of mis-scoring.
	win, push = ResolveDice(300, 100)
	assert.False(t, win)
	assert.True(t, push)
}

func TestRollFromFloatBounds(t *testing.T) {
	assert.Equal(t, 1, rollFromFloat(0))
	assert.Equal(t, 100, rollFromFloat(0.9999999))
	assert.Equal(t, 51, rollFromFloat(0.5))
}

func TestResolveSlots(t *testing.T) {
	three, two := ResolveSlots([]string{"seven", "seven", "seven"})
	assert.True(t, three)
	assert.False(t, two)

	three, two = ResolveSlots([]string{"seven", "seven", "bar"})
	assert.False(t, three)
	assert.True(t, two)

	three, two = ResolveSlots([]string{"bar", "seven", "seven"})
	assert.False(t, three)
	assert.True(t, two)

	// Matching outer reels with a different middle pay nothing.
	three, two = ResolveSlots([]string{"seven", "bar", "seven"})
	assert.False(t, three)
	assert.False(t, two)

	three, two = ResolveSlots([]string{"cherry", "bar", "seven"})
	assert.False(t, three)
	assert.False(t, two)
}

func TestSlotsPayoutMatchesReels(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 2)

	out, err := e.Settle(enum.GameTypeSlots, d, 1000, Params{})
	require.NoError(t, err)

	reels := out.Details["reels"].([]string)
	require.Len(t, reels, 3)
	three, two := ResolveSlots(reels)
	switch {
	case three:
		assert.Equal(t, int64(10000), out.Payout(1000))
		assert.Equal(t, true, out.Details["jackpot"])
	case two:
		assert.Equal(t, int64(3000), out.Payout(1000))
	default:
		assert.Equal(t, int64(0), out.Payout(1000))
		assert.False(t, out.Win)
	}
}

func TestKenoValidation(t *testing.T) {
	e := testEngine()

	cases := []struct {
		name  string
		picks []int
	}{
		{"no picks", nil},
		{"too many", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
		{"duplicate", []int{5, 5}},
		{"off board low", []int{0}},
		{"off board high", []int{41}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.Validate(enum.GameTypeKeno, 100, Params{KenoPicks: tc.picks})
			assert.ErrorIs(t, err, types.ErrInvalidBetParameters)
		})
	}

	assert.NoError(t, e.Validate(enum.GameTypeKeno, 100, Params{KenoPicks: []int{1, 40}}))
}

// kenoPicksWithHits builds a pick set of the given size containing exactly
// wantHits of the numbers the draw will produce.
func kenoPicksWithHits(t *testing.T, d fairness.Draw, cfg config.KenoConfig, size, wantHits int) []int {
	t.Helper()
	drawn := d.Distinct(cfg.DrawCount, cfg.BoardSize)
	inDraw := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		inDraw[n] = true
	}

	picks := make([]int, 0, size)
	picks = append(picks, drawn[:wantHits]...)
	for n := 1; n <= cfg.BoardSize && len(picks) < size; n++ {
		if !inDraw[n] {
			picks = append(picks, n)
		}
	}
	require.Len(t, picks, size)
	return picks
}

func TestKenoPayTiers(t *testing.T) {
	e := testEngine()
	cfg := e.cfg.Keno

	t.Run("majority hits pay the high tier", func(t *testing.T) {
		d := testDraw(t, 3)
		picks := kenoPicksWithHits(t, d, cfg, 4, 3)

		out, err := e.Settle(enum.GameTypeKeno, d, 1000, Params{KenoPicks: picks})
		require.NoError(t, err)
		assert.True(t, out.Win)
		assert.Equal(t, 3, out.Details["hits"])
		assert.Equal(t, int64(5000), out.Payout(1000))
	})

	t.Run("half or fewer hits pay the base tier", func(t *testing.T) {
		d := testDraw(t, 4)
		picks := kenoPicksWithHits(t, d, cfg, 4, 2)

		out, err := e.Settle(enum.GameTypeKeno, d, 1000, Params{KenoPicks: picks})
		require.NoError(t, err)
		assert.True(t, out.Win)
		assert.Equal(t, 2, out.Details["hits"])
		assert.Equal(t, int64(1500), out.Payout(1000))
	})

	t.Run("zero hits pay nothing", func(t *testing.T) {
		d := testDraw(t, 5)
		picks := kenoPicksWithHits(t, d, cfg, 4, 0)

		out, err := e.Settle(enum.GameTypeKeno, d, 1000, Params{KenoPicks: picks})
		require.NoError(t, err)
		assert.False(t, out.Win)
		assert.Equal(t, 0, out.Details["hits"])
		assert.Equal(t, int64(0), out.Payout(1000))
	})
}

func TestCrashPoint(t *testing.T) {
	// Floats inside the house-edge slice crash instantly.
	assert.Equal(t, 1.00, CrashPoint(0.0, 0.01, 1000))
	assert.Equal(t, 1.00, CrashPoint(0.0099, 0.01, 1000))

	// (1-edge)/(1-f), floored to 2 decimals.
	assert.Equal(t, 2.0, CrashPoint(0.5, 0, 1000))
	assert.Equal(t, 4.0, CrashPoint(0.75, 0, 1000))
	assert.Equal(t, 16.0, CrashPoint(0.9375, 0, 1000))
	assert.InDelta(t, 1.98, CrashPoint(0.5, 0.01, 1000), 0.011)

	// The curve never pays below even money and never exceeds the cap.
	assert.Equal(t, 1.0, CrashPoint(0.01, 0.01, 1000))
	assert.Equal(t, 1000.0, CrashPoint(0.9999999, 0.01, 1000))
}

func TestCrashValidation(t *testing.T) {
	e := testEngine()

	err := e.Validate(enum.GameTypeCrash, 100, Params{AutoCashout: 1.0})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameTypeCrash, 100, Params{AutoCashout: 5000})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	assert.NoError(t, e.Validate(enum.GameTypeCrash, 100, Params{AutoCashout: 1.01}))
}

func TestCrashSettlement(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 6)
	f := d.Floats(1)[0]
	point := CrashPoint(f, e.cfg.Crash.HouseEdge, e.cfg.Crash.MaxMultiplier)

	t.Run("cashout below the crash point wins the target", func(t *testing.T) {
		if point < 1.01 {
			t.Skip("instant crash under this draw")
		}
		out, err := e.Settle(enum.GameTypeCrash, d, 1000, Params{AutoCashout: 1.01})
		require.NoError(t, err)
		assert.True(t, out.Win)
		assert.Equal(t, point, out.Details["crash_point"])
		assert.Equal(t, int64(1010), out.Payout(1000))
	})

	t.Run("cashout above the crash point loses the stake", func(t *testing.T) {
		target := point + 1
		if target > e.cfg.Crash.MaxMultiplier {
			t.Skip("crash point at the cap under this draw")
		}
		out, err := e.Settle(enum.GameTypeCrash, d, 1000, Params{AutoCashout: target})
		require.NoError(t, err)
		assert.False(t, out.Win)
		assert.Equal(t, int64(0), out.Payout(1000))
	})
}

func TestHandStrength(t *testing.T) {
	assert.Equal(t, 10, HandStrength([]int{7, 7, 7, 7, 7}))
	assert.Equal(t, 8, HandStrength([]int{7, 7, 7, 7, 2}))
	assert.Equal(t, 8, HandStrength([]int{7, 7, 7, 2, 2}))
	assert.Equal(t, 6, HandStrength([]int{7, 7, 2, 2, 5}))
	assert.Equal(t, 6, HandStrength([]int{7, 7, 7, 2, 5}))
	assert.Equal(t, 4, HandStrength([]int{7, 7, 2, 5, 9}))
	assert.Equal(t, 2, HandStrength([]int{1, 3, 5, 7, 9}))
}

func TestFlowerPokerSettlement(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 7)

	out, err := e.Settle(enum.GameTypeFlowerPoker, d, 1000, Params{})
	require.NoError(t, err)

	player := out.Details["player_strength"].(int)
	opponent := out.Details["opponent_strength"].(int)
	switch {
	case player > opponent:
		assert.True(t, out.Win)
		assert.Equal(t, int64(2000), out.Payout(1000))
	case player == opponent:
		assert.False(t, out.Win)
		assert.Equal(t, int64(1000), out.Payout(1000))
	default:
		assert.False(t, out.Win)
		assert.Equal(t, int64(0), out.Payout(1000))
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 21, Score([]int{11, 10}))
	assert.Equal(t, 12, Score([]int{11, 11}))
	assert.Equal(t, 13, Score([]int{11, 11, 11}))
	assert.Equal(t, 20, Score([]int{10, 10}))
	assert.Equal(t, 17, Score([]int{11, 4, 2}))
	assert.Equal(t, 16, Score([]int{10, 4, 2}))
	assert.Equal(t, 26, Score([]int{10, 10, 6}))
}

func TestResolveBlackjack(t *testing.T) {
	cases := []struct {
		name    string
		player  []int
		dealer  []int
		win     bool
		push    bool
		natural bool
	}{
		{"player bust loses", []int{10, 10, 5}, []int{10, 8}, false, false, false},
		{"player bust loses even when dealer busts too", []int{10, 10, 5}, []int{10, 10, 6}, false, false, false},
		{"both natural push", []int{11, 10}, []int{10, 11}, false, true, false},
		{"player natural wins", []int{11, 10}, []int{10, 10}, true, false, true},
		{"drawn 21 is not a natural", []int{7, 7, 7}, []int{10, 8}, true, false, false},
		{"dealer bust pays", []int{10, 8}, []int{10, 10, 6}, true, false, false},
		{"higher score wins", []int{10, 9}, []int{10, 8}, true, false, false},
		{"lower score loses", []int{10, 7}, []int{10, 9}, false, false, false},
		{"equal score pushes", []int{10, 8}, []int{9, 9}, false, true, false},
		{"dealer natural beats drawn 21", []int{7, 7, 7}, []int{11, 10}, false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := resolveBlackjack(tc.player, tc.dealer)
			assert.Equal(t, tc.win, res.win)
			assert.Equal(t, tc.push, res.push)
			assert.Equal(t, tc.natural, res.natural)
		})
	}
}

func TestBlackjackSettlement(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 8)

	out, err := e.Settle(enum.GameTypeBlackjack, d, 1000, Params{})
	require.NoError(t, err)

	playerHand := out.Details["player_hand"].([]int)
	dealerHand := out.Details["dealer_hand"].([]int)
	res := resolveBlackjack(playerHand, dealerHand)
	switch {
	case res.natural:
		assert.Equal(t, int64(2500), out.Payout(1000))
	case res.win:
		assert.Equal(t, int64(2000), out.Payout(1000))
	case res.push:
		assert.Equal(t, int64(1000), out.Payout(1000))
	default:
		assert.Equal(t, int64(0), out.Payout(1000))
	}
	assert.Equal(t, res.win, out.Win)
}

func TestRouletteValidation(t *testing.T) {
	e := testEngine()

	err := e.Validate(enum.GameTypeRoulette, 100, Params{RouletteBet: "corner"})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameTypeRoulette, 100, Params{RouletteBet: RouletteBetNumber, RouletteNumber: 37})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameTypeRoulette, 100, Params{RouletteBet: RouletteBetColor, RouletteChoice: "green"})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	err = e.Validate(enum.GameTypeRoulette, 100, Params{RouletteBet: RouletteBetOddEven, RouletteChoice: "prime"})
	assert.ErrorIs(t, err, types.ErrInvalidBetParameters)

	assert.NoError(t, e.Validate(enum.GameTypeRoulette, 100, Params{RouletteBet: RouletteBetNumber, RouletteNumber: 0}))
}

func TestRouletteStraightNumber(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 9)
	spin := int(d.Floats(1)[0] * 37)

	hit, err := e.Settle(enum.GameTypeRoulette, d, 1000,
		Params{RouletteBet: RouletteBetNumber, RouletteNumber: spin})
	require.NoError(t, err)
	assert.True(t, hit.Win)
	assert.Equal(t, int64(36000), hit.Payout(1000))
	assert.Equal(t, spin, hit.Details["spin"])

	miss, err := e.Settle(enum.GameTypeRoulette, d, 1000,
		Params{RouletteBet: RouletteBetNumber, RouletteNumber: (spin + 1) % 37})
	require.NoError(t, err)
	assert.False(t, miss.Win)
	assert.Equal(t, int64(0), miss.Payout(1000))
}

func TestRouletteColorAndParity(t *testing.T) {
	e := testEngine()
	d := testDraw(t, 10)
	spin := int(d.Floats(1)[0] * 37)
	if spin == 0 {
		t.Skip("zero spin under this draw")
	}

	color := "black"
	if redNumbers[spin] {
		color = "red"
	}
	out, err := e.Settle(enum.GameTypeRoulette, d, 1000,
		Params{RouletteBet: RouletteBetColor, RouletteChoice: color})
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.Equal(t, int64(2000), out.Payout(1000))

	parity := "even"
	if spin%2 == 1 {
		parity = "odd"
	}
	out, err = e.Settle(enum.GameTypeRoulette, d, 1000,
		Params{RouletteBet: RouletteBetOddEven, RouletteChoice: parity})
	require.NoError(t, err)
	assert.True(t, out.Win)
	assert.Equal(t, int64(2000), out.Payout(1000))
}
