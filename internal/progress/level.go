package progress

import (
	"github.com/sonettogo/server/internal/data"
	"go.uber.org/zap"
)

const (
	MaxHeroLevel    = 180
	MaxExSkillLevel = 5
)

// LevelUpCost sums the currency cost of every level in (from, to] for a hero
// of the given rarity. ok is false when a level has no cost row.
func LevelUpCost(cat *data.Catalogue, rare, from, to int32, log *zap.Logger) (cost Cost, missing int32, ok bool) {
	for lvl := from + 1; lvl <= to; lvl++ {
		row := cat.LevelCost(lvl, rare)
		if row == nil {
			return Cost{}, lvl, false
		}
		cost = cost.Plus(Price(row.Cosume, log).CurrenciesOnly())
	}
	return cost, 0, true
}
