package progress

import (
	"math/rand/v2"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"go.uber.org/zap"
)

const (
	selectorFirst = 481000
	selectorLast  = 481020
	heroSelector  = 481022
)

// ItemUse describes one UseItem request.
type ItemUse struct {
	MaterialID int32
	Quantity   int32
	TargetID   int64
	HasTarget  bool
}

// ItemUseRewards resolves what using u yields. Selector boxes pick reward
// index TargetID; the hero selector yields nothing; any other positive target
// is granted directly as an item. Otherwise the item's effect applies, or its
// reward pool with one random pick per use when the pool has several items.
// Repeated picks of the same entry are summed. A scaled amount that does not
// fit in int32 is an InvalidRequest.
func ItemUseRewards(cat *data.Catalogue, u ItemUse, rng *rand.Rand, log *zap.Logger) (data.Effects, error) {
	if u.MaterialID == heroSelector && u.HasTarget {
		return nil, nil
	}
	if u.MaterialID >= selectorFirst && u.MaterialID <= selectorLast && u.HasTarget {
		items, currencies := rewardPool(cat, u.MaterialID, log)
		idx := u.TargetID
		switch {
		case idx >= 0 && idx < int64(len(items)):
			return scale(data.Effects{items[idx]}, u.Quantity)
		case idx >= 0 && idx < int64(len(currencies)):
			return scale(data.Effects{currencies[idx]}, u.Quantity)
		}
		log.Warn("selector target out of range",
			zap.Int32("item", u.MaterialID), zap.Int64("target", u.TargetID))
		return nil, nil
	}
	if u.TargetID > 0 {
		return data.Effects{{Kind: data.EffectItem, ID: int32(u.TargetID), Amount: u.Quantity}}, nil
	}

	item := cat.Item(u.MaterialID)
	if item == nil {
		log.Warn("used item not in catalogue", zap.Int32("item", u.MaterialID))
		return nil, nil
	}
	if es := data.ParseEffects(item.Effect, log); len(es) > 0 {
		return scale(es, u.Quantity)
	}

	items, currencies := rewardPool(cat, u.MaterialID, log)
	var out data.Effects
	if len(items) > 1 {
		counts := make([]int32, len(items))
		for range u.Quantity {
			counts[rng.IntN(len(items))]++
		}
		for i, n := range counts {
			if n == 0 {
				continue
			}
			picked, err := scale(data.Effects{items[i]}, n)
			if err != nil {
				return nil, err
			}
			out = append(out, picked...)
		}
		out = out.Merge()
	} else {
		scaled, err := scale(items, u.Quantity)
		if err != nil {
			return nil, err
		}
		out = append(out, scaled...)
	}
	scaled, err := scale(currencies, u.Quantity)
	if err != nil {
		return nil, err
	}
	return append(out, scaled...), nil
}

func scale(es data.Effects, n int32) (data.Effects, error) {
	out, err := es.Scale(n)
	if err != nil {
		return nil, apperr.Invalid("reward amount: %v", err)
	}
	return out, nil
}

func rewardPool(cat *data.Catalogue, id int32, log *zap.Logger) (items, currencies data.Effects) {
	item := cat.Item(id)
	if item == nil {
		return nil, nil
	}
	es := data.ParseEffects(item.Rewards, log)
	return es.Of(data.EffectItem), es.Of(data.EffectCurrency)
}
