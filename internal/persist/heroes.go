package persist

import (
	"context"
	"fmt"
)

// heroColumns matches HeroRow field order.
const heroColumns = `uid, player_id, hero_id, create_time, level, exp, rank, breakthrough, skin,
	faith, active_skill_level, ex_skill_level, talent, default_equip_uid, is_new, is_favor,
	destiny_stone, special_equip, use_talent_template_id, talent_style_unlock, talent_style_red,
	duplicate_count, hp, attack, defense, mdefense, technic,
	cri, recri, cri_dmg, cri_def, add_dmg, drop_dmg`

func (db *DB) ListHeroes(ctx context.Context, playerID int64) ([]HeroRow, error) {
	return collectAll[HeroRow](db.q.Query(ctx,
		`SELECT `+heroColumns+` FROM heroes WHERE player_id = $1 ORDER BY uid`, playerID,
	))
}

func (db *DB) LoadHero(ctx context.Context, playerID int64, heroID int32) (*HeroRow, error) {
	return collectOne[HeroRow](db.q.Query(ctx,
		`SELECT `+heroColumns+` FROM heroes WHERE player_id = $1 AND hero_id = $2`, playerID, heroID,
	))
}

func (db *DB) CreateHero(ctx context.Context, h *HeroRow) error {
	err := db.q.QueryRow(ctx,
		`INSERT INTO heroes (player_id, hero_id, create_time, level, exp, rank, breakthrough, skin,
			faith, active_skill_level, ex_skill_level, talent, default_equip_uid, is_new, is_favor,
			destiny_stone, special_equip, use_talent_template_id, talent_style_unlock, talent_style_red,
			duplicate_count, hp, attack, defense, mdefense, technic,
			cri, recri, cri_dmg, cri_def, add_dmg, drop_dmg)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)
		 RETURNING uid`,
		h.PlayerID, h.HeroID, h.CreateTime, h.Level, h.Exp, h.Rank, h.Breakthrough, h.Skin,
		h.Faith, h.ActiveSkillLevel, h.ExSkillLevel, h.Talent, h.DefaultEquipUID, h.IsNew, h.IsFavor,
		h.DestinyStone, h.SpecialEquip, h.UseTalentTemplateID, h.TalentStyleUnlock, h.TalentStyleRed,
		h.DuplicateCount, h.HP, h.Attack, h.Defense, h.Mdefense, h.Technic,
		h.Cri, h.Recri, h.CriDmg, h.CriDef, h.AddDmg, h.DropDmg,
	).Scan(&h.UID)
	if err != nil {
		return fmt.Errorf("create hero %d: %w", h.HeroID, err)
	}
	return nil
}

func (db *DB) UpdateHero(ctx context.Context, h *HeroRow) error {
	_, err := db.q.Exec(ctx,
		`UPDATE heroes SET
			level = $2, exp = $3, rank = $4, breakthrough = $5, skin = $6,
			faith = $7, active_skill_level = $8, ex_skill_level = $9, talent = $10,
			default_equip_uid = $11, is_new = $12, is_favor = $13,
			destiny_stone = $14, special_equip = $15, use_talent_template_id = $16,
			talent_style_unlock = $17, talent_style_red = $18, duplicate_count = $19,
			hp = $20, attack = $21, defense = $22, mdefense = $23, technic = $24,
			cri = $25, recri = $26, cri_dmg = $27, cri_def = $28, add_dmg = $29, drop_dmg = $30
		 WHERE uid = $1`,
		h.UID, h.Level, h.Exp, h.Rank, h.Breakthrough, h.Skin,
		h.Faith, h.ActiveSkillLevel, h.ExSkillLevel, h.Talent,
		h.DefaultEquipUID, h.IsNew, h.IsFavor,
		h.DestinyStone, h.SpecialEquip, h.UseTalentTemplateID,
		h.TalentStyleUnlock, h.TalentStyleRed, h.DuplicateCount,
		h.HP, h.Attack, h.Defense, h.Mdefense, h.Technic,
		h.Cri, h.Recri, h.CriDmg, h.CriDef, h.AddDmg, h.DropDmg,
	)
	if err != nil {
		return fmt.Errorf("update hero %d: %w", h.UID, err)
	}
	return nil
}

func (db *DB) ListOwnedSkins(ctx context.Context, playerID int64) ([]int32, error) {
	return collectInt32s(db.q.Query(ctx,
		`SELECT skin_id FROM hero_all_skins WHERE player_id = $1 ORDER BY skin_id`, playerID,
	))
}

func (db *DB) HasOwnedSkin(ctx context.Context, playerID int64, skin int32) (bool, error) {
	return db.exists(ctx,
		`SELECT 1 FROM hero_all_skins WHERE player_id = $1 AND skin_id = $2`, playerID, skin)
}

func (db *DB) AddOwnedSkin(ctx context.Context, playerID int64, skin int32) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_all_skins (player_id, skin_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		playerID, skin,
	)
	return err
}

func (db *DB) ListHeroSkins(ctx context.Context, heroUID int64) ([]HeroSkinRow, error) {
	return collectAll[HeroSkinRow](db.q.Query(ctx,
		`SELECT hero_uid, skin, expire_sec FROM hero_skins WHERE hero_uid = $1 ORDER BY skin`, heroUID,
	))
}

func (db *DB) PutHeroSkin(ctx context.Context, row HeroSkinRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_skins (hero_uid, skin, expire_sec) VALUES ($1, $2, $3)
		 ON CONFLICT (hero_uid, skin) DO UPDATE SET expire_sec = EXCLUDED.expire_sec`,
		row.HeroUID, row.Skin, row.ExpireSec,
	)
	return err
}

func (db *DB) ListBirthdays(ctx context.Context, playerID int64) ([]BirthdayRow, error) {
	return collectAll[BirthdayRow](db.q.Query(ctx,
		`SELECT hero_id, birthday_count FROM hero_birthday_info WHERE player_id = $1 ORDER BY hero_id`,
		playerID,
	))
}

func (db *DB) PutBirthday(ctx context.Context, playerID int64, row BirthdayRow) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO hero_birthday_info (player_id, hero_id, birthday_count) VALUES ($1, $2, $3)
		 ON CONFLICT (player_id, hero_id) DO UPDATE SET birthday_count = EXCLUDED.birthday_count`,
		playerID, row.HeroID, row.BirthdayCount,
	)
	return err
}
