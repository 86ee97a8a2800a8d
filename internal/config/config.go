package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine EngineConfig `yaml:"engine"`
}

type EngineConfig struct {
	StartingBalance     int64         `yaml:"starting_balance"`
	HouseEdgePercent    float64       `yaml:"house_edge_percent"`
	LargeWagerThreshold int64         `yaml:"large_wager_threshold"`
	Tiers               []TierConfig  `yaml:"tiers"`
	Games               GamesConfig   `yaml:"games"`
	NATS                NATSConfig    `yaml:"nats"`
	Storage             StorageConfig `yaml:"storage"`
}

// TierConfig is one syndicate tier row. Thresholds are cumulative referred
// wager in GP; rate is the fraction of house edge paid as commission.
type TierConfig struct {
	Name      string  `yaml:"name"`
	Threshold int64   `yaml:"threshold"`
	Rate      float64 `yaml:"rate"`
}

type GamesConfig struct {
	Slots     SlotsConfig     `yaml:"slots"`
	Keno      KenoConfig      `yaml:"keno"`
	Crash     CrashConfig     `yaml:"crash"`
	Blackjack BlackjackConfig `yaml:"blackjack"`
}

type SlotsConfig struct {
	Symbols            []string `yaml:"symbols"`
	JackpotMultiplier  float64  `yaml:"jackpot_multiplier"`
	TwoMatchMultiplier float64  `yaml:"two_match_multiplier"`
}

type KenoConfig struct {
	BoardSize      int     `yaml:"board_size"`
	DrawCount      int     `yaml:"draw_count"`
	MaxPicks       int     `yaml:"max_picks"`
	BaseMultiplier float64 `yaml:"base_multiplier"`
	HighMultiplier float64 `yaml:"high_multiplier"`
}

type CrashConfig struct {
	HouseEdge     float64 `yaml:"house_edge"`
	MaxMultiplier float64 `yaml:"max_multiplier"`
}

type BlackjackConfig struct {
	WinMultiplier     float64 `yaml:"win_multiplier"`
	NaturalMultiplier float64 `yaml:"natural_multiplier"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type StorageConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns a fully-defaulted config, used by tests and the demo CLI.
func Default() *Config {
	var config Config
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	e := &config.Engine
	if e.StartingBalance == 0 {
		e.StartingBalance = 1_000_000
	}
	if e.HouseEdgePercent == 0 {
		e.HouseEdgePercent = 2.0
	}
	if e.LargeWagerThreshold == 0 {
		e.LargeWagerThreshold = 10_000_000
	}
	if len(e.Tiers) == 0 {
		e.Tiers = []TierConfig{
			{Name: "Recruit", Threshold: 0, Rate: 0.05},
			{Name: "Agent", Threshold: 100_000_000, Rate: 0.06},
			{Name: "Operative", Threshold: 500_000_000, Rate: 0.07},
			{Name: "Kingpin", Threshold: 2_000_000_000, Rate: 0.08},
		}
	}
	if len(e.Games.Slots.Symbols) == 0 {
		e.Games.Slots.Symbols = []string{"cherry", "orange", "lemon", "melon", "bar", "seven"}
	}
	if e.Games.Slots.JackpotMultiplier == 0 {
		e.Games.Slots.JackpotMultiplier = 10
	}
	if e.Games.Slots.TwoMatchMultiplier == 0 {
		e.Games.Slots.TwoMatchMultiplier = 3
	}
	if e.Games.Keno.BoardSize == 0 {
		e.Games.Keno.BoardSize = 40
	}
	if e.Games.Keno.DrawCount == 0 {
		e.Games.Keno.DrawCount = 10
	}
	if e.Games.Keno.MaxPicks == 0 {
		e.Games.Keno.MaxPicks = 10
	}
	if e.Games.Keno.BaseMultiplier == 0 {
		e.Games.Keno.BaseMultiplier = 1.5
	}
	if e.Games.Keno.HighMultiplier == 0 {
		e.Games.Keno.HighMultiplier = 5
	}
	if e.Games.Crash.HouseEdge == 0 {
		e.Games.Crash.HouseEdge = 0.01
	}
	if e.Games.Crash.MaxMultiplier == 0 {
		e.Games.Crash.MaxMultiplier = 1000
	}
	if e.Games.Blackjack.WinMultiplier == 0 {
		e.Games.Blackjack.WinMultiplier = 2
	}
	if e.Games.Blackjack.NaturalMultiplier == 0 {
		e.Games.Blackjack.NaturalMultiplier = 2.5
	}
	if e.NATS.SubjectPrefix == "" {
		e.NATS.SubjectPrefix = "wager.events"
	}
	if e.Storage.Type == "" {
		e.Storage.Type = "badger"
	}
	if e.Storage.Path == "" {
		e.Storage.Path = "data"
	}

	sort.Slice(e.Tiers, func(i, j int) bool {
		return e.Tiers[i].Threshold < e.Tiers[j].Threshold
	})
}

func validate(config *Config) error {
	e := &config.Engine
	if e.HouseEdgePercent < 0 || e.HouseEdgePercent > 100 {
		return fmt.Errorf("house_edge_percent must be in [0,100], got %v", e.HouseEdgePercent)
	}
	if e.Tiers[0].Threshold != 0 {
		return fmt.Errorf("lowest tier must have threshold 0, got %d", e.Tiers[0].Threshold)
	}
	for _, t := range e.Tiers {
		if t.Rate < 0 || t.Rate > 1 {
			return fmt.Errorf("tier %s: rate must be in [0,1], got %v", t.Name, t.Rate)
		}
	}
	if e.Games.Keno.DrawCount > e.Games.Keno.BoardSize {
		return fmt.Errorf("keno draw_count %d exceeds board_size %d",
			e.Games.Keno.DrawCount, e.Games.Keno.BoardSize)
	}
	if e.Games.Crash.HouseEdge < 0 || e.Games.Crash.HouseEdge >= 1 {
		return fmt.Errorf("crash house_edge must be in [0,1), got %v", e.Games.Crash.HouseEdge)
	}
	return nil
}
