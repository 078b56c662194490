package handler

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/persist"
)

func itemMsg(r persist.ItemRow) *msg.Item {
	return &msg.Item{
		ItemID:         r.ItemID,
		Quantity:       r.Quantity,
		LastUseTime:    r.LastUseTime,
		LastUpdateTime: r.LastUpdateTime,
		TotalGainCount: r.TotalGain,
	}
}

func powerItemMsg(r persist.PowerItemRow) *msg.PowerItem {
	return &msg.PowerItem{UID: r.UID, ItemID: r.ItemID, Quantity: r.Quantity, CreateTime: r.CreateTime}
}

func currencyMsg(r persist.CurrencyRow) *msg.Currency {
	return &msg.Currency{
		CurrencyID:      r.CurrencyID,
		Quantity:        r.Quantity,
		LastRecoverTime: r.LastRecoverTime,
		ExpiredTime:     r.ExpiredTime,
	}
}

func equipMsg(r persist.EquipRow) *msg.Equip {
	return &msg.Equip{
		EquipID:  r.EquipID,
		UID:      r.UID,
		Level:    r.Level,
		Exp:      r.Exp,
		BreakLv:  r.Breakthrough,
		Count:    r.Count,
		IsLock:   r.IsLock,
		RefineLv: r.RefineLv,
	}
}

func cubeMsgs(rows []persist.CubeRow) []*msg.TalentCubeInfo {
	out := make([]*msg.TalentCubeInfo, 0, len(rows))
	for _, c := range rows {
		out = append(out, &msg.TalentCubeInfo{CubeID: c.CubeID, Direction: c.Direction, PosX: c.X, PosY: c.Y})
	}
	return out
}

func schemeCubes(cubes []data.Cube) []persist.CubeRow {
	out := make([]persist.CubeRow, 0, len(cubes))
	for _, c := range cubes {
		out = append(out, persist.CubeRow{CubeID: c.CubeID, Direction: c.Direction, X: c.X, Y: c.Y})
	}
	return out
}

func buildingMsg(r persist.BuildingRow) *msg.BuildingInfo {
	return &msg.BuildingInfo{
		UID:      r.UID,
		DefineID: r.DefineID,
		InUse:    r.InUse,
		X:        r.X,
		Y:        r.Y,
		Rotate:   r.Rotate,
		Level:    r.Level,
	}
}

// templateInfo loads a template with its cubes.
func templateInfo(ctx context.Context, st persist.TalentStore, tpl *persist.TalentTemplateRow) (*msg.TalentTemplateInfo, error) {
	cubes, err := st.TemplateCubes(ctx, tpl.RowID)
	if err != nil {
		return nil, apperr.Storage("load template cubes", err)
	}
	return &msg.TalentTemplateInfo{
		ID:              tpl.TemplateID,
		TalentCubeInfos: cubeMsgs(cubes),
		Name:            tpl.Name,
		Style:           tpl.Style,
	}, nil
}

// heroInfo assembles the full client view of a hero: active cubes, every
// template and the equipped skin list.
func heroInfo(ctx context.Context, st persist.Store, h *persist.HeroRow) (*msg.HeroInfo, error) {
	active, err := st.ActiveCubes(ctx, h.UID)
	if err != nil {
		return nil, apperr.Storage("load active cubes", err)
	}
	tpls, err := st.ListTalentTemplates(ctx, h.UID)
	if err != nil {
		return nil, apperr.Storage("load talent templates", err)
	}
	skins, err := st.ListHeroSkins(ctx, h.UID)
	if err != nil {
		return nil, apperr.Storage("load hero skins", err)
	}

	info := &msg.HeroInfo{
		UID:              h.UID,
		HeroID:           h.HeroID,
		CreateTime:       h.CreateTime,
		Level:            h.Level,
		Exp:              h.Exp,
		Rank:             h.Rank,
		Breakthrough:     h.Breakthrough,
		Skin:             h.Skin,
		Faith:            h.Faith,
		ActiveSkillLevel: h.ActiveSkillLevel,
		ExSkillLevel:     h.ExSkillLevel,
		Talent:           h.Talent,
		DefaultEquipUID:  h.DefaultEquipUID,
		IsNew:            h.IsNew,
		IsFavor:          h.IsFavor,
		TalentCubeInfos:  cubeMsgs(active),
		DestinyStone:     h.DestinyStone,
		SpecialEquip:     h.SpecialEquip,
		BaseAttr: &msg.HeroAttribute{
			HP:       h.HP,
			Attack:   h.Attack,
			Defense:  h.Defense,
			Mdefense: h.Mdefense,
			Technic:  h.Technic,
		},
		ExAttr: &msg.HeroExAttribute{
			Cri:     h.Cri,
			Recri:   h.Recri,
			CriDmg:  h.CriDmg,
			CriDef:  h.CriDef,
			AddDmg:  h.AddDmg,
			DropDmg: h.DropDmg,
		},
		UseTalentTemplateID: h.UseTalentTemplateID,
		TalentStyleUnlock:   h.TalentStyleUnlock,
		TalentStyleRed:      h.TalentStyleRed,
	}
	for i := range tpls {
		ti, err := templateInfo(ctx, st, &tpls[i])
		if err != nil {
			return nil, err
		}
		info.TalentTemplates = append(info.TalentTemplates, ti)
	}
	for _, s := range skins {
		info.SkinInfoList = append(info.SkinInfoList, &msg.HeroSkin{Skin: s.Skin, ExpireSec: s.ExpireSec})
	}
	return info, nil
}
