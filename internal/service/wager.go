package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/cloutscape/wager-engine/internal/engine"
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/internal/ledger"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/logger"
	"github.com/cloutscape/wager-engine/pkg/common/types"
)

// PlaceWager runs one full round: validate, draw, settle, attribute the
// wager to the referrer, persist, record, notify. Validation happens
// before any mutation; a save failure fails the whole operation and the
// in-memory account is discarded, so the next call reloads durable state.
func (s *Service) PlaceWager(accountID string, game enum.GameType, bet int64, params engine.Params) (*types.SettlementResult, error) {
	if err := s.engine.Validate(game, bet, params); err != nil {
		return nil, err
	}

	// Pre-read only to learn the (immutable) referrer id, so both locks
	// can be taken in the global order.
	peek, err := s.accounts.Load(accountID)
	if err != nil {
		return nil, err
	}

	ids := []string{accountID}
	if peek.ReferredBy != "" {
		ids = append(ids, peek.ReferredBy)
	}
	unlock := s.ledger.LockAccounts(ids...)
	defer unlock()

	acct, err := s.accounts.Load(accountID)
	if err != nil {
		return nil, err
	}

	if bet > acct.Balance {
		return nil, fmt.Errorf("%w: bet %d exceeds balance %d",
			types.ErrInsufficientFunds, bet, acct.Balance)
	}

	draw, err := fairness.Next(acct)
	if err != nil {
		return nil, err
	}

	outcome, err := s.engine.Settle(game, draw, bet, params)
	if err != nil {
		return nil, err
	}

	payout, err := s.ledger.Settle(acct, bet, outcome)
	if err != nil {
		return nil, err
	}

	referrer, com, err := s.applyCommission(acct, bet)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Save(acct); err != nil {
		return nil, fmt.Errorf("persist settlement: %w", err)
	}
	if referrer != nil {
		if err := s.accounts.Save(referrer); err != nil {
			return nil, fmt.Errorf("persist commission: %w", err)
		}
	}

	rec := types.GameRecord{
		Timestamp: time.Now().UTC(),
		PlayerID:  acct.ID,
		Game:      game,
		Bet:       bet,
		Payout:    payout,
		NetProfit: payout - bet,
		Win:       outcome.Win,
		Nonce:     draw.Nonce(),
		Details:   outcome.Details,
	}
	if err := s.recorder.Append(rec); err != nil {
		return nil, fmt.Errorf("record round: %w", err)
	}

	s.notify(rec, outcome, com)

	return &types.SettlementResult{
		Game:       game,
		Win:        outcome.Win,
		Bet:        bet,
		Payout:     payout,
		NetProfit:  payout - bet,
		NewBalance: acct.Balance,
		Nonce:      draw.Nonce(),
		Details:    outcome.Details,
	}, nil
}

// applyCommission resolves the referrer and credits their cut. A missing
// referrer (deleted account, dangling backreference) means no referral,
// never an error. The player's lock set already covers the referrer.
func (s *Service) applyCommission(acct *types.Account, bet int64) (*types.Account, *ledger.Commission, error) {
	if acct.ReferredBy == "" {
		return nil, nil, nil
	}

	referrer, err := s.accounts.Load(acct.ReferredBy)
	if err != nil {
		if errors.Is(err, types.ErrAccountNotFound) {
			logger.Debug("Referrer missing, skipping commission",
				"account", acct.ID, "referrer", acct.ReferredBy)
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if referrer.ID == acct.ID {
		// Corrupted backreference; registration forbids this.
		return nil, nil, nil
	}

	com, err := s.ledger.RecordWagerForCommission(referrer, bet)
	if err != nil {
		return nil, nil, err
	}
	return referrer, com, nil
}

// notify publishes the round's notable events. Failures are logged and
// swallowed: the wager is already settled and saved.
func (s *Service) notify(rec types.GameRecord, outcome types.Outcome, com *ledger.Commission) {
	category := enum.EventCategoryGameLoss
	if outcome.Win {
		category = enum.EventCategoryGameWin
	}
	s.publish(category, rec)

	if jackpot, ok := outcome.Details["jackpot"].(bool); ok && jackpot {
		s.publish(enum.EventCategoryJackpot, rec)
	}
	if rec.Bet >= s.cfg.LargeWagerThreshold {
		s.publish(enum.EventCategoryLargeWager, rec)
	}
	if com != nil && com.PromotedTo != "" {
		s.publish(enum.EventCategoryTierPromotion, map[string]any{
			"referrer": com.ReferrerID,
			"tier":     com.PromotedTo,
		})
	}
}

func (s *Service) publish(category enum.EventCategory, payload any) {
	if err := s.sink.Publish(category, payload); err != nil {
		logger.Warn("Event publish failed", "category", category, "error", err)
	}
}
