package accountstore

import (
	"errors"
	"fmt"

	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/cloutscape/wager-engine/pkg/infra"
	"github.com/cloutscape/wager-engine/pkg/kvstore"
)

const (
	accountKeyPrefix = "account"
	refcodeKeyPrefix = "refcode"
)

// Store is the persistence collaborator the core mutates accounts through.
// Load always returns a fresh copy, so an aborted operation leaves no
// in-memory state behind and the next Load re-reads durable state.
type Store interface {
	Load(id string) (*types.Account, error)
	Save(account *types.Account) error
	FindByReferralCode(code string) (*types.Account, error)
	Close() error
}

type accountStore struct {
	kvstore infra.KVStore
}

func New(kv infra.KVStore) Store {
	return &accountStore{kvstore: kv}
}

func composeKey(id string) string {
	return fmt.Sprintf("%s/%s", accountKeyPrefix, id)
}

func composeRefcodeKey(code string) string {
	return fmt.Sprintf("%s/%s", refcodeKeyPrefix, code)
}

func (s *accountStore) Load(id string) (*types.Account, error) {
	if id == "" {
		return nil, types.ErrAccountNotFound
	}
	var acct types.Account
	found, err := s.kvstore.GetAny(composeKey(id), &acct)
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", id, err)
	}
	if !found {
		return nil, types.ErrAccountNotFound
	}
	return &acct, nil
}

func (s *accountStore) Save(account *types.Account) error {
	if account == nil || account.ID == "" {
		return fmt.Errorf("account id is required")
	}
	if err := s.kvstore.SetAny(composeKey(account.ID), account); err != nil {
		return fmt.Errorf("save account %s: %w", account.ID, err)
	}
	if account.ReferralCode != "" {
		if err := s.kvstore.Set(composeRefcodeKey(account.ReferralCode), account.ID); err != nil {
			return fmt.Errorf("save referral code index for %s: %w", account.ID, err)
		}
	}
	return nil
}

func (s *accountStore) FindByReferralCode(code string) (*types.Account, error) {
	if code == "" {
		return nil, types.ErrAccountNotFound
	}
	id, err := s.kvstore.Get(composeRefcodeKey(code))
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, types.ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup referral code %s: %w", code, err)
	}
	return s.Load(id)
}

func (s *accountStore) Close() error {
	return s.kvstore.Close()
}
