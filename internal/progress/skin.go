package progress

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/persist"
)

// InsightRank is the rank that unlocks a hero's insight skin.
const InsightRank = 3

// UnlockInsightSkin grants the insight skin of h when the catalogue has one
// and the player does not own it yet. The skin becomes the hero's current
// skin and h is updated in place; the caller still writes h.
func UnlockInsightSkin(ctx context.Context, tx persist.HeroStore, cat *data.Catalogue, h *persist.HeroRow) (bool, error) {
	skin := cat.InsightSkin(h.HeroID)
	if skin == nil {
		return false, nil
	}
	owned, err := tx.HasOwnedSkin(ctx, h.PlayerID, skin.ID)
	if err != nil {
		return false, apperr.Storage("check owned skin", err)
	}
	if owned {
		return false, nil
	}
	if err := tx.AddOwnedSkin(ctx, h.PlayerID, skin.ID); err != nil {
		return false, apperr.Storage("add owned skin", err)
	}
	if err := tx.PutHeroSkin(ctx, persist.HeroSkinRow{HeroUID: h.UID, Skin: skin.ID}); err != nil {
		return false, apperr.Storage("put hero skin", err)
	}
	h.Skin = skin.ID
	return true, nil
}
