package recorder

import (
	"fmt"
	"sort"
)

// Leaderboard stat fields.
const (
	StatNetProfit     = "net_profit"
	StatTotalWinnings = "total_winnings"
	StatTotalBets     = "total_bets"
	StatGamesPlayed   = "games_played"
	StatGamesWon      = "games_won"
	StatWinRate       = "win_rate"
	StatBestStreak    = "best_streak"
)

func statValue(ps *PlayerStats, field string) (float64, error) {
	switch field {
	case StatNetProfit:
		return float64(ps.NetProfit), nil
	case StatTotalWinnings:
		return float64(ps.TotalWinnings), nil
	case StatTotalBets:
		return float64(ps.TotalBets), nil
	case StatGamesPlayed:
		return float64(ps.GamesPlayed), nil
	case StatGamesWon:
		return float64(ps.GamesWon), nil
	case StatWinRate:
		return ps.WinRate, nil
	case StatBestStreak:
		return float64(ps.BestStreak), nil
	default:
		return 0, fmt.Errorf("unknown leaderboard field %q", field)
	}
}

// Leaderboard returns up to limit players sorted by the given stat,
// descending, with ties broken by which player entered the history first.
func (r *Recorder) Leaderboard(field string, limit int) ([]PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]*PlayerStats, 0, len(r.stats))
	for _, ps := range r.stats {
		if _, err := statValue(ps, field); err != nil {
			return nil, err
		}
		players = append(players, ps)
	}

	// Pre-order by first appearance so the stable sort's tie-break is
	// insertion order, not map iteration order.
	sort.Slice(players, func(i, j int) bool {
		return players[i].firstSeen < players[j].firstSeen
	})
	sort.SliceStable(players, func(i, j int) bool {
		vi, _ := statValue(players[i], field)
		vj, _ := statValue(players[j], field)
		return vi > vj
	})

	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	out := make([]PlayerStats, len(players))
	for i, ps := range players {
		out[i] = snapshot(ps)
	}
	return out, nil
}

// Overall is the house-wide view of the history.
type Overall struct {
	TotalPlayers  int64            `json:"total_players"`
	TotalGames    int64            `json:"total_games"`
	TotalBets     int64            `json:"total_bets"`
	TotalWinnings int64            `json:"total_winnings"`
	TotalProfit   int64            `json:"total_profit"`
	AverageBet    float64          `json:"average_bet"`
	GamesByType   map[string]int64 `json:"games_by_type"`
}

// Statistics folds the per-player aggregates into house totals.
func (r *Recorder) Statistics() Overall {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Overall{
		TotalPlayers: int64(len(r.stats)),
		TotalGames:   int64(len(r.log)),
		GamesByType:  make(map[string]int64),
	}
	for _, ps := range r.stats {
		out.TotalBets += ps.TotalBets
		out.TotalWinnings += ps.TotalWinnings
	}
	out.TotalProfit = out.TotalWinnings - out.TotalBets
	if out.TotalGames > 0 {
		out.AverageBet = float64(out.TotalBets) / float64(out.TotalGames)
	}
	for _, rec := range r.log {
		out.GamesByType[string(rec.Game)]++
	}
	return out
}
