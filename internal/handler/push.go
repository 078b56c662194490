package handler

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/progress"
)

// Red dot groups refreshed by commands.
const redDotMonthCard int32 = 1040

// sendItemChangePush reloads itemIDs and pushes their current quantity. An
// id the player holds none of is pushed with quantity 0. When power or
// insight is set the whole power or insight item list rides along.
func (d *Deps) sendItemChangePush(ctx context.Context, s *net.Session, playerID int64, itemIDs []int32, power, insight bool) error {
	push := &msg.ItemChangePush{}
	for _, id := range itemIDs {
		row, err := d.Store.LoadItem(ctx, playerID, id)
		if err != nil {
			return apperr.Storage("load item", err)
		}
		if row == nil {
			push.Items = append(push.Items, &msg.Item{ItemID: id})
			continue
		}
		push.Items = append(push.Items, itemMsg(*row))
	}
	if power {
		rows, err := d.Store.ListPowerItems(ctx, playerID)
		if err != nil {
			return apperr.Storage("list power items", err)
		}
		for _, r := range rows {
			push.PowerItems = append(push.PowerItems, powerItemMsg(r))
		}
	}
	if insight {
		rows, err := d.Store.ListInsightItems(ctx, playerID)
		if err != nil {
			return apperr.Storage("list insight items", err)
		}
		for _, r := range rows {
			push.InsightItems = append(push.InsightItems, powerItemMsg(r))
		}
	}
	return s.Push(packet.CmdItemChangePush, push)
}

// sendCurrencyChangePush reloads currencyIDs; missing rows are pushed as 0.
func (d *Deps) sendCurrencyChangePush(ctx context.Context, s *net.Session, playerID int64, currencyIDs []int32) error {
	push := &msg.CurrencyChangePush{}
	for _, id := range currencyIDs {
		row, err := d.Store.LoadCurrency(ctx, playerID, id)
		if err != nil {
			return apperr.Storage("load currency", err)
		}
		if row == nil {
			push.ChangeCurrency = append(push.ChangeCurrency, &msg.Currency{CurrencyID: id})
			continue
		}
		push.ChangeCurrency = append(push.ChangeCurrency, currencyMsg(*row))
	}
	return s.Push(packet.CmdCurrencyChangePush, push)
}

func (d *Deps) sendEquipUpdatePush(ctx context.Context, s *net.Session, playerID int64, uids []int64) error {
	push := &msg.EquipUpdatePush{}
	for _, uid := range uids {
		row, err := d.Store.LoadEquip(ctx, playerID, uid)
		if err != nil {
			return apperr.Storage("load equip", err)
		}
		if row != nil {
			push.Equips = append(push.Equips, equipMsg(*row))
		}
	}
	return s.Push(packet.CmdEquipUpdatePush, push)
}

// sendMaterialChangePush reports a reward digest with its get approach.
func (d *Deps) sendMaterialChangePush(s *net.Session, es data.Effects, approach int32) error {
	push := &msg.MaterialChangePush{GetApproach: approach}
	for _, e := range es {
		push.DataList = append(push.DataList, &msg.MaterialData{
			MaterilType: int32(e.Kind),
			MaterilID:   e.ID,
			Quantity:    e.Amount,
		})
	}
	return s.Push(packet.CmdMaterialChangePush, push)
}

// sendRedDotPush clears the given red dot groups.
func (d *Deps) sendRedDotPush(s *net.Session, defineIDs []int32) error {
	push := &msg.UpdateRedDotPush{}
	for _, id := range defineIDs {
		push.RedDotInfos = append(push.RedDotInfos, &msg.RedDotGroup{DefineID: id, ReplaceAll: true})
	}
	return s.Push(packet.CmdUpdateRedDotPush, push)
}

// sendHeroUpdatePush reloads each hero so the push reflects committed state.
func (d *Deps) sendHeroUpdatePush(ctx context.Context, s *net.Session, playerID int64, heroIDs ...int32) error {
	push := &msg.HeroUpdatePush{}
	for _, id := range heroIDs {
		h, err := d.Store.LoadHero(ctx, playerID, id)
		if err != nil {
			return apperr.Storage("load hero", err)
		}
		if h == nil {
			continue
		}
		info, err := heroInfo(ctx, d.Store, h)
		if err != nil {
			return err
		}
		push.HeroUpdates = append(push.HeroUpdates, info)
	}
	return s.Push(packet.CmdHeroUpdatePush, push)
}

// pushHeroRow pushes h as loaded, without a reload.
func (d *Deps) pushHeroRow(ctx context.Context, s *net.Session, h *persist.HeroRow) error {
	info, err := heroInfo(ctx, d.Store, h)
	if err != nil {
		return err
	}
	return s.Push(packet.CmdHeroUpdatePush, &msg.HeroUpdatePush{HeroUpdates: []*msg.HeroInfo{info}})
}

// notify emits the refresh pushes for ch in wire order: items, currencies,
// equipment, then the material digest when approach is non-zero. Red dots,
// hero updates and the reply follow at the call site.
func (d *Deps) notify(ctx context.Context, s *net.Session, playerID int64, ch progress.Changes, approach int32) error {
	if len(ch.Items) > 0 || ch.PowerItems || ch.Insight {
		if err := d.sendItemChangePush(ctx, s, playerID, ch.Items, ch.PowerItems, ch.Insight); err != nil {
			return err
		}
	}
	if len(ch.Currencies) > 0 {
		if err := d.sendCurrencyChangePush(ctx, s, playerID, ch.Currencies); err != nil {
			return err
		}
	}
	if len(ch.Equips) > 0 {
		if err := d.sendEquipUpdatePush(ctx, s, playerID, ch.Equips); err != nil {
			return err
		}
	}
	if approach != 0 && len(ch.Materials) > 0 {
		if err := d.sendMaterialChangePush(s, ch.Materials, approach); err != nil {
			return err
		}
	}
	return nil
}

// pushShortfall refreshes the one resource a cost check found short.
func (d *Deps) pushShortfall(ctx context.Context, s *net.Session, playerID int64, sf *progress.Shortfall) error {
	if sf.Kind == data.EffectCurrency {
		return d.sendCurrencyChangePush(ctx, s, playerID, []int32{sf.ID})
	}
	return d.sendItemChangePush(ctx, s, playerID, []int32{sf.ID}, false, false)
}
