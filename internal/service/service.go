// Package service is the single public surface for surrounding glue code
// (bot commands, web handlers). Nothing outside this package should reach
// into the ledger or the outcome engine directly.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/internal/engine"
	"github.com/cloutscape/wager-engine/internal/events"
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/internal/ledger"
	"github.com/cloutscape/wager-engine/internal/recorder"
	"github.com/cloutscape/wager-engine/pkg/common/logger"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/cloutscape/wager-engine/pkg/store/accountstore"
)

type Service struct {
	cfg      config.EngineConfig
	accounts accountstore.Store
	ledger   *ledger.Ledger
	engine   *engine.Engine
	recorder *recorder.Recorder
	sink     events.Sink
}

func New(cfg config.EngineConfig, accounts accountstore.Store, rec *recorder.Recorder, sink events.Sink) *Service {
	return &Service{
		cfg:      cfg,
		accounts: accounts,
		ledger:   ledger.New(cfg),
		engine:   engine.New(cfg.Games),
		recorder: rec,
		sink:     sink,
	}
}

// Recorder exposes history and leaderboard queries.
func (s *Service) Recorder() *recorder.Recorder {
	return s.recorder
}

// Register creates an account with the configured starting balance, fresh
// fairness seeds and a unique referral code. A referral code of another
// player binds referred_by once, at creation; self-referral is rejected
// and an unknown code is ignored rather than failing registration.
func (s *Service) Register(id string, referralCode string) (*types.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("account id is required")
	}

	if _, err := s.accounts.Load(id); err == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrAccountExists, id)
	} else if !errors.Is(err, types.ErrAccountNotFound) {
		return nil, err
	}

	referredBy := ""
	if referralCode != "" {
		ref, err := s.accounts.FindByReferralCode(referralCode)
		switch {
		case errors.Is(err, types.ErrAccountNotFound):
			logger.Warn("Unknown referral code ignored", "code", referralCode, "account", id)
		case err != nil:
			return nil, err
		case ref.ID == id:
			return nil, types.ErrSelfReferral
		default:
			referredBy = ref.ID
		}
	}

	fair, err := fairness.NewFairness()
	if err != nil {
		return nil, err
	}
	code, err := s.newReferralCode()
	if err != nil {
		return nil, err
	}

	acct := &types.Account{
		ID:           id,
		Balance:      s.cfg.StartingBalance,
		Fairness:     fair,
		ReferredBy:   referredBy,
		ReferralCode: code,
		Syndicate:    types.Syndicate{Tier: s.ledger.BaseTier().Name},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.Save(acct); err != nil {
		return nil, err
	}

	logger.Info("Account registered", "account", id, "referred_by", referredBy)
	return acct, nil
}

func (s *Service) newReferralCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		b := make([]byte, 4)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := strings.ToUpper(hex.EncodeToString(b))
		_, err := s.accounts.FindByReferralCode(code)
		if errors.Is(err, types.ErrAccountNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a unique referral code")
}

// GetFairnessProof returns the commitment for the live server seed, the
// client seed and the current nonce. Repeated calls without an intervening
// wager or rotation return identical results.
func (s *Service) GetFairnessProof(accountID string) (types.FairnessProof, error) {
	unlock := s.ledger.LockAccounts(accountID)
	defer unlock()

	acct, err := s.accounts.Load(accountID)
	if err != nil {
		return types.FairnessProof{}, err
	}
	return fairness.Proof(acct), nil
}

// RotateClientSeed installs the player's new client seed and returns the
// retired server seed so every round played under the old pair can be
// verified offline.
func (s *Service) RotateClientSeed(accountID, newSeed string) (string, error) {
	unlock := s.ledger.LockAccounts(accountID)
	defer unlock()

	acct, err := s.accounts.Load(accountID)
	if err != nil {
		return "", err
	}
	retired, err := fairness.RotateClientSeed(acct, newSeed)
	if err != nil {
		return "", err
	}
	if err := s.accounts.Save(acct); err != nil {
		return "", err
	}

	logger.Info("Client seed rotated", "account", accountID)
	return retired, nil
}
