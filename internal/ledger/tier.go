package ledger

import (
	"sort"

	"github.com/cloutscape/wager-engine/internal/config"
	"github.com/cloutscape/wager-engine/pkg/common/types"
	"github.com/shopspring/decimal"
)

func tiersFromConfig(rows []config.TierConfig) []types.Tier {
	tiers := make([]types.Tier, 0, len(rows))
	for _, r := range rows {
		tiers = append(tiers, types.Tier{
			Name:      r.Name,
			Threshold: r.Threshold,
			Rate:      decimal.NewFromFloat(r.Rate),
		})
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Threshold < tiers[j].Threshold
	})
	return tiers
}

// TierFor selects the highest tier whose threshold does not exceed the
// total referred wager. Pure and idempotent.
func TierFor(tiers []types.Tier, totalReferredWager int64) types.Tier {
	selected := tiers[0]
	for _, t := range tiers {
		if t.Threshold <= totalReferredWager {
			selected = t
		}
	}
	return selected
}
