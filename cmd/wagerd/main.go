package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/internal/engine"
	"github.com/cloutscape/wager-engine/internal/events"
	"github.com/cloutscape/wager-engine/internal/fairness"
	"github.com/cloutscape/wager-engine/internal/recorder"
	"github.com/cloutscape/wager-engine/internal/service"
	"github.com/cloutscape/wager-engine/pkg/common/enum"
	"github.com/cloutscape/wager-engine/pkg/common/logger"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/cloutscape/wager-engine/pkg/infra"
	"github.com/cloutscape/wager-engine/pkg/kvstore"
	"github.com/cloutscape/wager-engine/pkg/store/accountstore"
	"github.com/cloutscape/wager-engine/pkg/store/roundstore"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:   "wagerd",
		Short: "Provably fair wagering and syndicate commission engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger.Init(&logger.Options{
				Level:      level,
				TimeFormat: time.RFC3339,
			})
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	root.AddCommand(verifyCmd(), demoCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Config file not found, using defaults", "path", configPath)
			return config.Default()
		}
		logger.Fatal("Load config failed", "path", configPath, "error", err)
	}
	return cfg
}

func verifyCmd() *cobra.Command {
	var (
		serverSeed  string
		clientSeed  string
		nonce       uint64
		game        string
		bet         int64
		kenoPicks   []int
		autoCashout float64
		rouBet      string
		rouNumber   int
		rouChoice   string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay a round offline from a revealed server seed",
		Long: "Recomputes a round from (server seed, client seed, nonce) and prints the " +
			"outcome. The revealed seed must hash to the commitment shown before play.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()

			d, err := fairness.At(serverSeed, clientSeed, nonce)
			if err != nil {
				return err
			}

			outcome, err := engine.New(cfg.Engine.Games).Settle(enum.GameType(game), d, bet, engine.Params{
				KenoPicks:      kenoPicks,
				AutoCashout:    autoCashout,
				RouletteBet:    rouBet,
				RouletteNumber: rouNumber,
				RouletteChoice: rouChoice,
			})
			if err != nil {
				return err
			}

			return printJSON(map[string]any{
				"server_seed_hash": fairness.Commit(serverSeed),
				"client_seed":      clientSeed,
				"nonce":            nonce,
				"game":             outcome.Game,
				"win":              outcome.Win,
				"multiplier":       outcome.Multiplier,
				"payout":           outcome.Payout(bet),
				"details":          outcome.Details,
			})
		},
	}

	cmd.Flags().StringVar(&serverSeed, "server-seed", "", "revealed server seed")
	cmd.Flags().StringVar(&clientSeed, "client-seed", fairness.DefaultClientSeed, "client seed in effect for the round")
	cmd.Flags().Uint64Var(&nonce, "nonce", 1, "nonce of the round")
	cmd.Flags().StringVar(&game, "game", string(enum.GameTypeDice), "game the round was played on")
	cmd.Flags().Int64Var(&bet, "bet", 1000, "stake of the round in GP")
	cmd.Flags().IntSliceVar(&kenoPicks, "keno-picks", nil, "keno picks of the round")
	cmd.Flags().Float64Var(&autoCashout, "auto-cashout", 0, "crash auto cashout of the round")
	cmd.Flags().StringVar(&rouBet, "roulette-bet", "", "roulette bet kind (number, color, odd_even)")
	cmd.Flags().IntVar(&rouNumber, "roulette-number", 0, "roulette straight number")
	cmd.Flags().StringVar(&rouChoice, "roulette-choice", "", "roulette color or parity choice")
	cmd.MarkFlagRequired("server-seed")

	return cmd
}

func demoCmd() *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a local end-to-end flow against the configured storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			return runDemo(cfg, rounds)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 5, "rounds to play per game")

	return cmd
}

func runDemo(cfg *config.Config, rounds int) error {
	e := cfg.Engine

	accountKV, err := kvstore.NewKVStore(enum.KVStoreType(e.Storage.Type), filepath.Join(e.Storage.Path, "accounts"), "wager")
	if err != nil {
		return fmt.Errorf("open account store: %w", err)
	}
	roundKV, err := kvstore.NewKVStore(enum.KVStoreType(e.Storage.Type), filepath.Join(e.Storage.Path, "rounds"), "wager")
	if err != nil {
		return fmt.Errorf("open round store: %w", err)
	}

	accounts := accountstore.New(accountKV)
	defer accounts.Close()
	roundLog, err := roundstore.New(roundKV)
	if err != nil {
		return err
	}
	defer roundLog.Close()

	rec, err := recorder.New(roundLog)
	if err != nil {
		return err
	}

	sink := newSink(e)
	defer sink.Close()

	svc := service.New(e, accounts, rec, sink)

	boss, err := register(svc, accounts, "demo-boss", "")
	if err != nil {
		return err
	}
	player, err := register(svc, accounts, "demo-player", boss.ReferralCode)
	if err != nil {
		return err
	}

	wagers := []struct {
		game   enum.GameType
		params engine.Params
	}{
		{enum.GameTypeDice, engine.Params{}},
		{enum.GameTypeSlots, engine.Params{}},
		{enum.GameTypeKeno, engine.Params{KenoPicks: []int{4, 12, 23, 31}}},
		{enum.GameTypeCrash, engine.Params{AutoCashout: 1.5}},
		{enum.GameTypeFlowerPoker, engine.Params{}},
		{enum.GameTypeBlackjack, engine.Params{}},
		{enum.GameTypeRoulette, engine.Params{RouletteBet: engine.RouletteBetColor, RouletteChoice: "red"}},
	}

	for i := 0; i < rounds; i++ {
		for _, w := range wagers {
			res, err := svc.PlaceWager(player.ID, w.game, 1000, w.params)
			if err != nil {
				return fmt.Errorf("wager on %s: %w", w.game, err)
			}
			logger.Info("Round settled",
				"game", res.Game, "win", res.Win, "payout", res.Payout,
				"balance", res.NewBalance, "nonce", res.Nonce)
		}
	}

	bossAfter, err := accounts.Load(boss.ID)
	if err != nil {
		return err
	}
	logger.Info("Referrer state",
		"tier", bossAfter.Syndicate.Tier,
		"referred_wager", bossAfter.Syndicate.TotalReferredWager,
		"earned_commissions", bossAfter.Syndicate.EarnedCommissions)

	board, err := rec.Leaderboard(recorder.StatNetProfit, 10)
	if err != nil {
		return err
	}
	if err := printJSON(board); err != nil {
		return err
	}
	return printJSON(rec.Statistics())
}

func newSink(cfg config.EngineConfig) events.Sink {
	if cfg.NATS.URL == "" {
		logger.Info("No NATS URL configured, events are dropped")
		return events.NopSink{}
	}
	conn, err := infra.GetNATSConnection(cfg.NATS.URL)
	if err != nil {
		logger.Warn("NATS unavailable, events are dropped", "error", err)
		return events.NopSink{}
	}
	return events.NewNATSEmitter(conn, cfg.NATS.SubjectPrefix)
}

func register(svc *service.Service, accounts accountstore.Store, id, referralCode string) (*types.Account, error) {
	acct, err := svc.Register(id, referralCode)
	if err == nil {
		return acct, nil
	}
	if errors.Is(err, types.ErrAccountExists) {
		return accounts.Load(id)
	}
	return nil, err
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
