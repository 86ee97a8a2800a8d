package types

import (
	"time"

	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/shopspring/decimal"
)

// Fairness holds the provably-fair seed state for one account. The server
// seed stays secret until the pair is retired by a client seed rotation.
type Fairness struct {
	ServerSeed string `json:"server_seed"`
	ClientSeed string `json:"client_seed"`
	Nonce      uint64 `json:"nonce"`
}

// Syndicate tracks the referral-program state of an account. Tier is derived
// solely from TotalReferredWager and is only written by the ledger.
type Syndicate struct {
	TotalReferredWager int64  `json:"total_referred_wager"`
	Tier               string `json:"tier"`
	EarnedCommissions  int64  `json:"earned_commissions"`
}

// Account is the unit of balance and fairness state. Balance is GP,
// a non-negative integer.
type Account struct {
	ID           string    `json:"id"`
	Balance      int64     `json:"balance"`
	Fairness     Fairness  `json:"fairness"`
	ReferredBy   string    `json:"referred_by,omitempty"`
	ReferralCode string    `json:"referral_code"`
	Syndicate    Syndicate `json:"syndicate"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tier is one row of the syndicate tier table: the lowest tier has
// threshold 0, and an account sits in the highest tier whose threshold does
// not exceed its total referred wager.
type Tier struct {
	Name      string
	Threshold int64
	Rate      decimal.Decimal
}

// Outcome is a settled game result expressed as a payout multiplier on the
// stake. A push carries multiplier 1 and Win false.
type Outcome struct {
	Game       enum.GameType
	Multiplier decimal.Decimal
	Win        bool
	Details    map[string]any
}

// Payout returns the integer GP credited back for the given stake,
// floored so fractional multipliers never create currency.
func (o Outcome) Payout(bet int64) int64 {
	return o.Multiplier.Mul(decimal.NewFromInt(bet)).Floor().IntPart()
}

// SettlementResult is what place-wager callers get back.
type SettlementResult struct {
	Game       enum.GameType  `json:"game"`
	Win        bool           `json:"win"`
	Bet        int64          `json:"bet"`
	Payout     int64          `json:"payout"`
	NetProfit  int64          `json:"net_profit"`
	NewBalance int64          `json:"new_balance"`
	Nonce      uint64         `json:"nonce"`
	Details    map[string]any `json:"details,omitempty"`
}

// GameRecord is one append-only history entry. Seq is assigned at append
// time and defines replay order.
type GameRecord struct {
	Seq       uint64         `json:"seq"`
	Timestamp time.Time      `json:"timestamp"`
	PlayerID  string         `json:"player_id"`
	Game      enum.GameType  `json:"game"`
	Bet       int64          `json:"bet"`
	Payout    int64          `json:"payout"`
	NetProfit int64          `json:"net_profit"`
	Win       bool           `json:"win"`
	Nonce     uint64         `json:"nonce"`
	Details   map[string]any `json:"details,omitempty"`
}

// FairnessProof reveals the commitment hash, never the live server seed.
type FairnessProof struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}
