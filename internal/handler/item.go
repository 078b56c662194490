package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/progress"
	"go.uber.org/zap"
)

func (d *Deps) handleGetItemList(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	items, err := d.Store.ListItems(ctx, playerID)
	if err != nil {
		return apperr.Storage("list items", err)
	}
	power, err := d.Store.ListPowerItems(ctx, playerID)
	if err != nil {
		return apperr.Storage("list power items", err)
	}
	insight, err := d.Store.ListInsightItems(ctx, playerID)
	if err != nil {
		return apperr.Storage("list insight items", err)
	}

	reply := &msg.GetItemListReply{}
	for _, r := range items {
		reply.Items = append(reply.Items, itemMsg(r))
	}
	for _, r := range power {
		reply.PowerItems = append(reply.PowerItems, powerItemMsg(r))
	}
	for _, r := range insight {
		reply.InsightItems = append(reply.InsightItems, powerItemMsg(r))
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

// insightLevel is the level field of an insight effect "rank#level"; 1 when
// absent or malformed.
func insightLevel(effect string) int32 {
	parts := strings.Split(effect, "#")
	if len(parts) < 2 {
		return 1
	}
	v, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return 1
	}
	return int32(v)
}

// handleUseInsightItem consumes one insight item to set a hero's rank and
// level directly.
func (d *Deps) handleUseInsightItem(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UseInsightItemRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	if req.UID == 0 || req.HeroID == 0 {
		return apperr.Invalid("insight item request incomplete")
	}
	log := s.Log().With(zap.Int64("player", playerID), zap.Int64("uid", req.UID), zap.Int32("hero", req.HeroID))

	var (
		h       *persist.HeroRow
		applied bool
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		row, err := tx.LoadInsightItem(ctx, playerID, req.UID)
		if err != nil {
			return apperr.Storage("load insight item", err)
		}
		if row == nil {
			return apperr.Invalid("insight item %d not owned", req.UID)
		}
		if row.Quantity <= 0 {
			log.Warn("insight item used up")
			return nil
		}
		def := d.Catalogue.InsightItem(row.ItemID)
		if def == nil {
			return apperr.Invalid("insight item %d not in catalogue", row.ItemID)
		}
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		h.Rank = def.HeroRank + 1
		h.Level = insightLevel(def.Effect)
		if h.Rank >= progress.InsightRank {
			if _, err := progress.UnlockInsightSkin(ctx, tx, d.Catalogue, h); err != nil {
				return err
			}
		}
		if err := updateHero(ctx, tx, h); err != nil {
			return err
		}
		if err := tx.ConsumeInsightItem(ctx, playerID, req.UID, 1); err != nil {
			return apperr.Storage("consume insight item", err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return err
	}

	if applied {
		log.Info("insight item used", zap.Int32("rank", h.Rank), zap.Int32("level", h.Level))
		if err := d.sendItemChangePush(ctx, s, playerID, nil, false, true); err != nil {
			return err
		}
		if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
			return err
		}
	}
	return s.Reply(pkt.Cmd, &msg.UseInsightItemReply{HeroID: req.HeroID, UID: req.UID}, apperr.StatusOK, pkt.UpTag)
}

// handleUseItem consumes a stackable item and grants what it yields.
func (d *Deps) handleUseItem(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UseItemRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	if req.MaterialID == 0 || req.Quantity <= 0 {
		return apperr.Invalid("use item %d x%d", req.MaterialID, req.Quantity)
	}
	log := s.Log().With(zap.Int64("player", playerID), zap.Int32("item", req.MaterialID))
	now := d.now()

	cost := progress.Cost{Items: data.Effects{{Kind: data.EffectItem, ID: req.MaterialID, Amount: req.Quantity}}}
	var gains data.Effects
	var ch progress.Changes
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		// Holdings bound the quantity before any reward is resolved.
		sf, err := cost.Check(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if sf != nil {
			return &apperr.Error{Kind: apperr.KindInsufficientItems, Message: fmt.Sprintf("item %d: have %d need %d", sf.ID, sf.Have, sf.Need)}
		}
		gains, err = progress.ItemUseRewards(d.Catalogue, progress.ItemUse{
			MaterialID: req.MaterialID,
			Quantity:   req.Quantity,
			TargetID:   req.TargetID,
			HasTarget:  req.HasTarget,
		}, d.rng(), log)
		if err != nil {
			return err
		}
		if ch, err = cost.Debit(ctx, tx, playerID, now); err != nil {
			return err
		}
		granted, err := progress.Grant(ctx, tx, d.Catalogue, playerID, gains, now)
		if err != nil {
			return err
		}
		ch.Merge(granted)
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("item used", zap.Int32("quantity", req.Quantity), zap.Int("gains", len(gains)))
	if err := d.notify(ctx, s, playerID, ch, msg.ApproachUseItem); err != nil {
		return err
	}
	if len(ch.Heroes) > 0 {
		if err := d.sendHeroUpdatePush(ctx, s, playerID, ch.Heroes...); err != nil {
			return err
		}
	}

	reply := &msg.UseItemReply{MaterialID: req.MaterialID, Quantity: req.Quantity}
	for _, e := range gains {
		reply.Gains = append(reply.Gains, &msg.MaterialData{MaterilType: int32(e.Kind), MaterilID: e.ID, Quantity: e.Amount})
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}
