package enum

type GameType string
type TransactionType string
type EventCategory string
type KVStoreType string

const (
	GameTypeDice        GameType = "dice"
	GameTypeSlots       GameType = "slots"
	GameTypeKeno        GameType = "keno"
	GameTypeCrash       GameType = "crash"
	GameTypeFlowerPoker GameType = "poker"
	GameTypeBlackjack   GameType = "blackjack"
	GameTypeRoulette    GameType = "roulette"
)

// AllGameTypes lists every supported game in a stable order.
var AllGameTypes = []GameType{
	GameTypeDice,
	GameTypeSlots,
	GameTypeKeno,
	GameTypeCrash,
	GameTypeFlowerPoker,
	GameTypeBlackjack,
	GameTypeRoulette,
}

func (g GameType) Valid() bool {
	for _, t := range AllGameTypes {
		if g == t {
			return true
		}
	}
	return false
}

const (
	TransactionTypeWager      TransactionType = "wager"
	TransactionTypePayout     TransactionType = "payout"
	TransactionTypeCommission TransactionType = "commission"
)

const (
	EventCategoryGameWin       EventCategory = "game_win"
	EventCategoryGameLoss      EventCategory = "game_loss"
	EventCategoryJackpot       EventCategory = "jackpot"
	EventCategoryTierPromotion EventCategory = "tier_promotion"
	EventCategoryLargeWager    EventCategory = "large_wager"
)

const (
	KVStoreTypeBadger KVStoreType = "badger"
)
