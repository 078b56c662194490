package progress

import (
	"context"
	"strconv"
	"strings"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/persist"
)

// Starter kit contents granted on first login.
var (
	StarterHeroes = []int32{3086, 3120, 3095}
	StarterEquips = []int32{1501, 1502, 1503, 1527, 1530}
	StarterItems  = []int32{110101, 110201, 481002}

	starterCurrencies = []struct{ id, amount int32 }{
		{1, 100}, {2, 3000000}, {3, 3000000}, {4, 240}, {5, 3000000},
	}
)

const (
	starterHeroLevel   = 180
	starterHeroRank    = 4
	starterExSkill     = 5
	starterItemCount   = 10
	defaultEquipRecID  = 1501
	starterUserTag     = "用户类型7"
	starterDuplicates  = 5
	starterFaith       = 10400
	starterEquipLevel  = 60
	starterEquipBreak  = 3
	starterEquipRefine = 5
)

// SeedStarter writes the starter kit for a new player in one transaction.
func SeedStarter(ctx context.Context, store persist.Store, cat *data.Catalogue, playerID int64, now int64) error {
	return store.InTx(ctx, func(tx persist.Store) error {
		equipUIDs := make(map[int32]int64, len(StarterEquips))
		for _, id := range StarterEquips {
			row := &persist.EquipRow{
				PlayerID:     playerID,
				EquipID:      id,
				Level:        starterEquipLevel,
				Breakthrough: starterEquipBreak,
				Count:        1,
				RefineLv:     starterEquipRefine,
			}
			if err := tx.CreateEquip(ctx, row); err != nil {
				return apperr.Storage("seed equip", err)
			}
			equipUIDs[id] = row.UID
		}

		for _, heroID := range StarterHeroes {
			h := starterHero(cat, playerID, heroID, now)
			h.DefaultEquipUID = equipUIDs[recommendedEquip(cat.Character(heroID))]
			if err := tx.CreateHero(ctx, &h); err != nil {
				return apperr.Storage("seed hero", err)
			}
			if err := CreateDefaultTemplate(ctx, tx, &h); err != nil {
				return err
			}
			if err := tx.PutBirthday(ctx, playerID, persist.BirthdayRow{HeroID: heroID, BirthdayCount: 1}); err != nil {
				return apperr.Storage("seed birthday", err)
			}
		}

		for _, c := range starterCurrencies {
			if err := tx.AddCurrency(ctx, playerID, c.id, c.amount, now); err != nil {
				return apperr.Storage("seed currency", err)
			}
		}
		for _, id := range StarterItems {
			if err := tx.AddItem(ctx, playerID, id, starterItemCount, now); err != nil {
				return apperr.Storage("seed item", err)
			}
		}

		stats := persist.UserStatsRow{IsFirstLogin: true, UserTag: starterUserTag}
		if err := tx.SaveUserStats(ctx, playerID, stats); err != nil {
			return apperr.Storage("seed user stats", err)
		}
		return apperr.Storage("seed player state", tx.SavePlayerState(ctx, persist.PlayerStateRow{PlayerID: playerID}))
	})
}

func starterHero(cat *data.Catalogue, playerID int64, heroID int32, now int64) persist.HeroRow {
	h := NewHero(cat, playerID, heroID, now)
	h.Level = starterHeroLevel
	h.Rank = starterHeroRank
	h.ExSkillLevel = starterExSkill
	h.Faith = starterFaith
	h.DuplicateCount = starterDuplicates
	h.HP, h.Attack, h.Defense, h.Mdefense, h.Technic = 5000, 500, 300, 300, 100
	h.Cri, h.Recri, h.CriDmg, h.CriDef, h.AddDmg, h.DropDmg = 50, 50, 1500, 0, 0, 0
	return h
}

// recommendedEquip reads the first field of equip_rec.
func recommendedEquip(ch *data.Character) int32 {
	if ch == nil {
		return defaultEquipRecID
	}
	first, _, _ := strings.Cut(ch.EquipRec, "#")
	id, err := strconv.ParseInt(strings.TrimSpace(first), 10, 32)
	if err != nil || id == 0 {
		return defaultEquipRecID
	}
	return int32(id)
}
