package progress

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/persist"
)

// Grant applies reward effects. Amounts that are not positive are skipped.
// A hero the player already owns counts as a duplicate.
func Grant(ctx context.Context, tx persist.Store, cat *data.Catalogue, playerID int64, es data.Effects, now int64) (Changes, error) {
	var ch Changes
	for _, e := range es {
		if e.Amount <= 0 {
			continue
		}
		switch e.Kind {
		case data.EffectItem:
			if err := tx.AddItem(ctx, playerID, e.ID, e.Amount, now); err != nil {
				return ch, apperr.Storage("add item", err)
			}
			ch.AddItem(e.ID)
		case data.EffectCurrency:
			if err := tx.AddCurrency(ctx, playerID, e.ID, e.Amount, now); err != nil {
				return ch, apperr.Storage("add currency", err)
			}
			ch.AddCurrency(e.ID)
		case data.EffectPowerItem:
			if _, err := tx.AddPowerItem(ctx, playerID, e.ID, e.Amount, now); err != nil {
				return ch, apperr.Storage("add power item", err)
			}
			ch.PowerItems = true
		case data.EffectEquip:
			for range e.Amount {
				row := &persist.EquipRow{PlayerID: playerID, EquipID: e.ID, Level: 1, Count: 1}
				if err := tx.CreateEquip(ctx, row); err != nil {
					return ch, apperr.Storage("create equip", err)
				}
				ch.AddEquip(row.UID)
			}
		case data.EffectHero:
			if err := grantHero(ctx, tx, cat, playerID, e.ID, e.Amount, now); err != nil {
				return ch, err
			}
			ch.AddHero(e.ID)
		default:
			continue
		}
		ch.Materials = append(ch.Materials, e)
	}
	return ch, nil
}

func grantHero(ctx context.Context, tx persist.Store, cat *data.Catalogue, playerID int64, heroID, amount int32, now int64) error {
	h, err := tx.LoadHero(ctx, playerID, heroID)
	if err != nil {
		return apperr.Storage("load hero", err)
	}
	if h != nil {
		h.DuplicateCount += amount
		return apperr.Storage("update hero", tx.UpdateHero(ctx, h))
	}
	row := NewHero(cat, playerID, heroID, now)
	row.DuplicateCount = amount - 1
	if err := tx.CreateHero(ctx, &row); err != nil {
		return apperr.Storage("create hero", err)
	}
	return CreateDefaultTemplate(ctx, tx, &row)
}

// CreateDefaultTemplate gives a new hero template 1 and equips it.
func CreateDefaultTemplate(ctx context.Context, tx persist.Store, h *persist.HeroRow) error {
	tpl := &persist.TalentTemplateRow{HeroUID: h.UID, TemplateID: 1}
	if err := tx.CreateTalentTemplate(ctx, tpl); err != nil {
		return apperr.Storage("create talent template", err)
	}
	if h.Skin != 0 {
		if err := tx.AddOwnedSkin(ctx, h.PlayerID, h.Skin); err != nil {
			return apperr.Storage("add owned skin", err)
		}
		if err := tx.PutHeroSkin(ctx, persist.HeroSkinRow{HeroUID: h.UID, Skin: h.Skin}); err != nil {
			return apperr.Storage("put hero skin", err)
		}
	}
	return nil
}

// NewHero returns a level 1 hero of heroID with the catalogue default skin.
func NewHero(cat *data.Catalogue, playerID int64, heroID int32, now int64) persist.HeroRow {
	h := persist.HeroRow{
		PlayerID:            playerID,
		HeroID:              heroID,
		CreateTime:          now,
		Level:               1,
		Rank:                1,
		ActiveSkillLevel:    1,
		Talent:              1,
		IsNew:               true,
		UseTalentTemplateID: 1,
		TalentStyleUnlock:   1,
	}
	if ch := cat.Character(heroID); ch != nil {
		h.Skin = ch.SkinID
	}
	ApplyLevelStats(cat, &h, 1)
	return h
}

// ApplyLevelStats copies the milestone stats for level onto h. It reports
// false when no row covers level.
func ApplyLevelStats(cat *data.Catalogue, h *persist.HeroRow, level int32) bool {
	row := cat.LevelStats(h.HeroID, level)
	if row == nil {
		return false
	}
	h.HP, h.Attack, h.Defense, h.Mdefense, h.Technic = row.HP, row.Atk, row.Def, row.Mdef, row.Technic
	h.Cri, h.Recri, h.CriDmg, h.CriDef = row.Cri, row.Recri, row.CriDmg, row.CriDef
	h.AddDmg, h.DropDmg = row.AddDmg, row.DropDmg
	return true
}
