// Package ledger is the only component allowed to mutate balances and
// syndicate state. Mutations operate on in-memory accounts; durability is
// the caller's save step, and a failed save discards the in-memory copy.
package ledger

import (
	"fmt"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

type Ledger struct {
	tiers        []types.Tier // ascending by threshold, tiers[0].Threshold == 0
	houseEdgePct decimal.Decimal
	lockTable    *lockTable
}

func New(cfg config.EngineConfig) *Ledger {
	return &Ledger{
		tiers:        tiersFromConfig(cfg.Tiers),
		houseEdgePct: decimal.NewFromFloat(cfg.HouseEdgePercent),
		lockTable:    newLockTable(),
	}
}

// LockAccounts serializes mutations per account. Ids are locked in sorted
// order so a settlement touching both player and referrer cannot deadlock
// against a crossing referral chain. The returned func releases in reverse.
func (l *Ledger) LockAccounts(ids ...string) func() {
	return l.lockTable.lock(ids...)
}

// Debit decreases the balance, rejecting any debit that would go negative.
// No partial effect on failure.
func (l *Ledger) Debit(acct *types.Account, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must be non-negative, got %d", amount)
	}
	if amount > acct.Balance {
		return fmt.Errorf("%w: debit %d exceeds balance %d",
			types.ErrInsufficientFunds, amount, acct.Balance)
	}
	acct.Balance -= amount
	return nil
}

// Credit increases the balance. Zero is a no-op, negative is an error.
func (l *Ledger) Credit(acct *types.Account, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must be non-negative, got %d", amount)
	}
	acct.Balance += amount
	return nil
}

// Settle composes debit-then-conditional-credit for a finished round and
// returns the payout credited. The caller must hold the account lock.
func (l *Ledger) Settle(acct *types.Account, bet int64, outcome types.Outcome) (int64, error) {
	if err := l.Debit(acct, bet); err != nil {
		return 0, err
	}
	payout := outcome.Payout(bet)
	if err := l.Credit(acct, payout); err != nil {
		return 0, err
	}
	return payout, nil
}

// Commission is the result of crediting a referrer for one wager.
type Commission struct {
	ReferrerID string
	Amount     int64
	TierUsed   string
	PromotedTo string // non-empty when this wager crossed a tier threshold
}

// RecordWagerForCommission attributes a wager to its referrer: the wager
// joins the referred volume, the referrer earns their cut of the house
// edge at the rate of their current tier, and only then is promotion
// re-evaluated. A promotion pays out starting with the next wager, not
// retroactively. A nil referrer is a no-op. The caller must hold the
// referrer's lock.
func (l *Ledger) RecordWagerForCommission(referrer *types.Account, bet int64) (*Commission, error) {
	if referrer == nil {
		return nil, nil
	}

	current := l.tierByName(referrer.Syndicate.Tier)
	referrer.Syndicate.TotalReferredWager += bet

	houseEdge := decimal.NewFromInt(bet).Mul(l.houseEdgePct).Div(decimal.NewFromInt(100))
	amount := houseEdge.Mul(current.Rate).Floor().IntPart()

	if err := l.Credit(referrer, amount); err != nil {
		return nil, err
	}
	referrer.Syndicate.EarnedCommissions += amount

	com := &Commission{
		ReferrerID: referrer.ID,
		Amount:     amount,
		TierUsed:   current.Name,
	}

	// Promotion is monotonic: referred volume never decreases, and a tier
	// is only written when its threshold strictly exceeds the current one.
	next := TierFor(l.tiers, referrer.Syndicate.TotalReferredWager)
	if next.Threshold > current.Threshold {
		referrer.Syndicate.Tier = next.Name
		com.PromotedTo = next.Name
	}

	return com, nil
}

// BaseTier returns the lowest tier, assigned to fresh accounts.
func (l *Ledger) BaseTier() types.Tier {
	return l.tiers[0]
}

func (l *Ledger) tierByName(name string) types.Tier {
	for _, t := range l.tiers {
		if t.Name == name {
			return t
		}
	}
	return l.tiers[0]
}
