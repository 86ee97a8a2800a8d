package roundstore

import (
	"fmt"
	"sync"

	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/cloutscape/wager-engine/pkg/infra"
)

const roundKeyPrefix = "round"

// Store is the durable, append-only round log. Keys are zero-padded
// sequence numbers so a prefix scan replays in insertion order.
type Store interface {
	Append(rec *types.GameRecord) error
	Replay(fn func(rec *types.GameRecord) error) error
	Close() error
}

type roundStore struct {
	mu      sync.Mutex
	kvstore infra.KVStore
	nextSeq uint64
}

func New(kv infra.KVStore) (Store, error) {
	s := &roundStore{kvstore: kv, nextSeq: 1}

	// Resume the sequence counter from whatever is already on disk.
	err := s.replayLocked(func(rec *types.GameRecord) error {
		if rec.Seq >= s.nextSeq {
			s.nextSeq = rec.Seq + 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func composeKey(seq uint64) string {
	return fmt.Sprintf("%s/%020d", roundKeyPrefix, seq)
}

// Append assigns the record its sequence number and writes it. The write
// completes before Append returns; a settled wager is never buffered.
func (s *roundStore) Append(rec *types.GameRecord) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Seq = s.nextSeq
	if err := s.kvstore.SetAny(composeKey(rec.Seq), rec); err != nil {
		return fmt.Errorf("append round %d: %w", rec.Seq, err)
	}
	s.nextSeq++
	return nil
}

func (s *roundStore) Replay(fn func(rec *types.GameRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replayLocked(fn)
}

func (s *roundStore) replayLocked(fn func(rec *types.GameRecord) error) error {
	pairs, err := s.kvstore.List(roundKeyPrefix + "/")
	if err != nil {
		return fmt.Errorf("list rounds: %w", err)
	}
	for _, pair := range pairs {
		var rec types.GameRecord
		if err := infra.JSON.Unmarshal(pair.Value, &rec); err != nil {
			return fmt.Errorf("decode round %s: %w", pair.Key, err)
		}
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *roundStore) Close() error {
	return s.kvstore.Close()
}
