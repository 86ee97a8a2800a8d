// Package recorder keeps the append-only round history and per-player
// aggregates. Aggregates are a pure fold over the log: replaying the full
// history through Aggregate reproduces the stored stats exactly.
package recorder

import (
	"fmt"
	"sync"

	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/cloutscape/wager-engine/pkg/store/roundstore"
)

type GameStats struct {
	Played    int64 `json:"played"`
	Won       int64 `json:"won"`
	TotalBet  int64 `json:"total_bet"`
	NetProfit int64 `json:"net_profit"`
}

type PlayerStats struct {
	PlayerID      string                       `json:"player_id"`
	GamesPlayed   int64                        `json:"games_played"`
	GamesWon      int64                        `json:"games_won"`
	WinRate       float64                      `json:"win_rate"`
	TotalBets     int64                        `json:"total_bets"`
	TotalWinnings int64                        `json:"total_winnings"`
	NetProfit     int64                        `json:"net_profit"`
	CurrentStreak int64                        `json:"current_streak"`
	BestStreak    int64                        `json:"best_streak"`
	ByGame        map[enum.GameType]*GameStats `json:"by_game"`

	firstSeen uint64
}

// Filter narrows history queries. Zero values match everything.
type Filter struct {
	Game     enum.GameType
	PlayerID string
}

type Recorder struct {
	mu       sync.Mutex
	store    roundstore.Store // optional durable log
	log      []types.GameRecord
	stats    map[string]*PlayerStats
	nextSeq  uint64
	seenTick uint64
}

// New builds a recorder, rebuilding in-memory state from the durable log
// when one is supplied.
func New(store roundstore.Store) (*Recorder, error) {
	r := &Recorder{
		store:   store,
		stats:   make(map[string]*PlayerStats),
		nextSeq: 1,
	}
	if store != nil {
		err := store.Replay(func(rec *types.GameRecord) error {
			r.applyLocked(*rec)
			if rec.Seq >= r.nextSeq {
				r.nextSeq = rec.Seq + 1
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("replay round log: %w", err)
		}
	}
	return r, nil
}

// Append records one settled round. With a durable store attached the
// write completes before the in-memory state moves.
func (r *Recorder) Append(rec types.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Append(&rec); err != nil {
			return err
		}
		r.nextSeq = rec.Seq + 1
	} else {
		rec.Seq = r.nextSeq
		r.nextSeq++
	}

	r.applyLocked(rec)
	return nil
}

func (r *Recorder) applyLocked(rec types.GameRecord) {
	r.log = append(r.log, rec)
	applyRecord(r.stats, rec, &r.seenTick)
}

// applyRecord is the single fold step shared by the live recorder and the
// pure Aggregate replay.
func applyRecord(stats map[string]*PlayerStats, rec types.GameRecord, seenTick *uint64) {
	ps, ok := stats[rec.PlayerID]
	if !ok {
		ps = &PlayerStats{
			PlayerID:  rec.PlayerID,
			ByGame:    make(map[enum.GameType]*GameStats),
			firstSeen: *seenTick,
		}
		*seenTick++
		stats[rec.PlayerID] = ps
	}

	ps.GamesPlayed++
	ps.TotalBets += rec.Bet
	ps.TotalWinnings += rec.Payout
	ps.NetProfit += rec.NetProfit

	if rec.Win {
		ps.GamesWon++
		ps.CurrentStreak++
		if ps.CurrentStreak > ps.BestStreak {
			ps.BestStreak = ps.CurrentStreak
		}
	} else {
		ps.CurrentStreak = 0
	}
	ps.WinRate = float64(ps.GamesWon) / float64(ps.GamesPlayed) * 100

	gs, ok := ps.ByGame[rec.Game]
	if !ok {
		gs = &GameStats{}
		ps.ByGame[rec.Game] = gs
	}
	gs.Played++
	gs.TotalBet += rec.Bet
	gs.NetProfit += rec.NetProfit
	if rec.Win {
		gs.Won++
	}
}

// Aggregate folds a history into per-player stats from scratch.
func Aggregate(records []types.GameRecord) map[string]*PlayerStats {
	stats := make(map[string]*PlayerStats)
	var tick uint64
	for _, rec := range records {
		applyRecord(stats, rec, &tick)
	}
	return stats
}

// History returns a copy of the full log in insertion order.
func (r *Recorder) History() []types.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.GameRecord, len(r.log))
	copy(out, r.log)
	return out
}

// Recent returns up to limit rounds, newest first, matching the filter.
func (r *Recorder) Recent(limit int, filter Filter) []types.GameRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.GameRecord, 0, limit)
	for i := len(r.log) - 1; i >= 0 && len(out) < limit; i-- {
		rec := r.log[i]
		if filter.Game != "" && rec.Game != filter.Game {
			continue
		}
		if filter.PlayerID != "" && rec.PlayerID != filter.PlayerID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Stats returns a snapshot of one player's aggregates.
func (r *Recorder) Stats(playerID string) (PlayerStats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, ok := r.stats[playerID]
	if !ok {
		return PlayerStats{}, false
	}
	return snapshot(ps), true
}

func snapshot(ps *PlayerStats) PlayerStats {
	out := *ps
	out.ByGame = make(map[enum.GameType]*GameStats, len(ps.ByGame))
	for g, gs := range ps.ByGame {
		c := *gs
		out.ByGame[g] = &c
	}
	return out
}
