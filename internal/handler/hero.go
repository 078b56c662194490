package handler

import (
	"context"
	"fmt"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/progress"
	"go.uber.org/zap"
)

const (
	defaultTouchCount int32 = 5

	// HeroRedDotRead answers with a fixed hero and red dot value; the
	// client only uses the ack.
	redDotFallbackHero int32 = 3080
	redDotReadValue    int32 = 6

	skillTypeEx int32 = 3
)

// outcome is how a progression command ended inside its transaction.
type outcome int

const (
	applied   outcome = iota // state changed
	unchanged                // nothing to do; echo the current state
	short                    // a resource ran short; refresh it and echo
)

// loadHero fetches the player's hero or reports an invalid request.
func loadHero(ctx context.Context, st persist.HeroStore, playerID int64, heroID int32) (*persist.HeroRow, error) {
	if heroID == 0 {
		return nil, apperr.Invalid("hero id missing")
	}
	h, err := st.LoadHero(ctx, playerID, heroID)
	if err != nil {
		return nil, apperr.Storage("load hero", err)
	}
	if h == nil {
		return nil, apperr.Invalid("hero %d not owned", heroID)
	}
	return h, nil
}

func updateHero(ctx context.Context, st persist.HeroStore, h *persist.HeroRow) error {
	return apperr.Storage("update hero", st.UpdateHero(ctx, h))
}

func (d *Deps) handleHeroInfoList(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	heroes, err := d.Store.ListHeroes(ctx, playerID)
	if err != nil {
		return apperr.Storage("list heroes", err)
	}
	skins, err := d.Store.ListOwnedSkins(ctx, playerID)
	if err != nil {
		return apperr.Storage("list owned skins", err)
	}
	birthdays, err := d.Store.ListBirthdays(ctx, playerID)
	if err != nil {
		return apperr.Storage("list birthdays", err)
	}

	reply := &msg.HeroInfoListReply{TouchCountLeft: defaultTouchCount, AllHeroSkin: skins}
	for i := range heroes {
		info, err := heroInfo(ctx, d.Store, &heroes[i])
		if err != nil {
			return err
		}
		reply.Heros = append(reply.Heros, info)
	}
	for _, b := range birthdays {
		reply.BirthdayInfos = append(reply.BirthdayInfos, &msg.HeroBirthdayInfo{HeroID: b.HeroID, BirthdayCount: b.BirthdayCount})
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

// handleHeroLevelUp raises a hero to the requested level, charging the
// currency cost of every level in between.
func (d *Deps) handleHeroLevelUp(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroLevelUpRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	log := s.Log().With(zap.Int64("player", playerID), zap.Int32("hero", req.HeroID))
	target := req.Value
	now := d.now()

	var (
		h   *persist.HeroRow
		res outcome
		sf  *progress.Shortfall
		ch  progress.Changes
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		switch {
		case target == h.Level:
			res = unchanged
			return nil
		case target < h.Level:
			return apperr.Invalid("hero %d level %d cannot drop to %d", h.HeroID, h.Level, target)
		case target > progress.MaxHeroLevel:
			return apperr.Invalid("level %d above cap", target)
		}
		character := d.Catalogue.Character(h.HeroID)
		if character == nil {
			return apperr.Invalid("hero %d not in catalogue", h.HeroID)
		}
		cost, missing, ok := progress.LevelUpCost(d.Catalogue, character.Rare, h.Level, target, log)
		if !ok {
			return apperr.Invalid("no level cost for level %d rare %d", missing, character.Rare)
		}
		if sf, err = cost.Check(ctx, tx, playerID); err != nil {
			return err
		}
		if sf != nil {
			res = short
			return nil
		}
		if ch, err = cost.Debit(ctx, tx, playerID, now); err != nil {
			return err
		}
		if !progress.ApplyLevelStats(d.Catalogue, h, target) {
			return apperr.Invalid("no stats for hero %d level %d", h.HeroID, target)
		}
		h.Level = target
		res = applied
		return updateHero(ctx, tx, h)
	})
	if err != nil {
		return err
	}

	levelPush := &msg.HeroLevelUpUpdatePush{HeroID: h.HeroID, NewLevel: h.Level, NewRank: h.Rank}
	switch res {
	case short:
		log.Debug("level up short", zap.Int32("resource", sf.ID), zap.Int32("have", sf.Have), zap.Int32("need", sf.Need))
		if err := d.pushShortfall(ctx, s, playerID, sf); err != nil {
			return err
		}
	case unchanged:
		if err := s.Push(packet.CmdHeroLevelUpUpdatePush, levelPush); err != nil {
			return err
		}
		if err := d.pushHeroRow(ctx, s, h); err != nil {
			return err
		}
	case applied:
		log.Info("hero levelled", zap.Int32("level", h.Level))
		if err := d.notify(ctx, s, playerID, ch, 0); err != nil {
			return err
		}
		if err := s.Push(packet.CmdHeroLevelUpUpdatePush, levelPush); err != nil {
			return err
		}
		if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
			return err
		}
	}
	return s.Reply(pkt.Cmd, &msg.HeroLevelUpReply{HeroID: h.HeroID, Value: h.Level}, apperr.StatusOK, pkt.UpTag)
}

// handleHeroRankUp moves a hero to the next rank and resets its level.
func (d *Deps) handleHeroRankUp(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroRankUpRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	log := s.Log().With(zap.Int64("player", playerID), zap.Int32("hero", req.HeroID))
	now := d.now()

	var (
		h   *persist.HeroRow
		res outcome
		sf  *progress.Shortfall
		ch  progress.Changes
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		next := h.Rank + 1
		rule := d.Catalogue.Rank(h.HeroID, next)
		if rule == nil {
			res = unchanged
			return nil
		}
		need, err := data.ParseRankRequirement(rule.Requirement)
		if err != nil {
			return apperr.Invalid("hero %d rank %d: %v", h.HeroID, next, err)
		}
		if need.HasLevel && h.Level != need.Level {
			res = unchanged
			return nil
		}
		cost := progress.Price(rule.Consume, log)
		if sf, err = cost.Check(ctx, tx, playerID); err != nil {
			return err
		}
		if sf != nil {
			res = short
			return nil
		}
		if ch, err = cost.Debit(ctx, tx, playerID, now); err != nil {
			return err
		}
		h.Rank, h.Level = next, 1
		if next == progress.InsightRank {
			if _, err := progress.UnlockInsightSkin(ctx, tx, d.Catalogue, h); err != nil {
				return err
			}
		}
		res = applied
		return updateHero(ctx, tx, h)
	})
	if err != nil {
		return err
	}

	switch res {
	case short:
		if err := d.pushShortfall(ctx, s, playerID, sf); err != nil {
			return err
		}
	case unchanged:
		if err := d.pushHeroRow(ctx, s, h); err != nil {
			return err
		}
	case applied:
		log.Info("hero ranked up", zap.Int32("rank", h.Rank))
		if err := d.notify(ctx, s, playerID, ch, 0); err != nil {
			return err
		}
		if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
			return err
		}
	}
	return s.Reply(pkt.Cmd, &msg.HeroRankUpReply{HeroID: h.HeroID, Value: h.Rank}, apperr.StatusOK, pkt.UpTag)
}

// handleHeroUpgradeSkill spends duplicate items on a skill. Only the EX
// skill has a level to raise.
func (d *Deps) handleHeroUpgradeSkill(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroUpgradeSkillRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	consume := req.Consume
	if consume <= 0 {
		consume = 1
	}
	now := d.now()

	var (
		h  *persist.HeroRow
		ch progress.Changes
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		if req.Type == skillTypeEx && h.ExSkillLevel >= progress.MaxExSkillLevel {
			return apperr.Invalid("hero %d ex skill at cap", h.HeroID)
		}
		character := d.Catalogue.Character(h.HeroID)
		if character == nil {
			return apperr.Invalid("hero %d not in catalogue", h.HeroID)
		}
		dupe, ok := data.LeadingItem(character.DuplicateItem)
		if !ok {
			return apperr.Invalid("hero %d has no duplicate item", h.HeroID)
		}
		cost := progress.Cost{Items: data.Effects{{Kind: data.EffectItem, ID: dupe, Amount: consume}}}
		sf, err := cost.Check(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if sf != nil {
			return &apperr.Error{Kind: apperr.KindInsufficientItems, Message: fmt.Sprintf("item %d: have %d need %d", sf.ID, sf.Have, sf.Need)}
		}
		if ch, err = cost.Debit(ctx, tx, playerID, now); err != nil {
			return err
		}
		if req.Type == skillTypeEx {
			h.ExSkillLevel = min(h.ExSkillLevel+consume, progress.MaxExSkillLevel)
		}
		return updateHero(ctx, tx, h)
	})
	if err != nil {
		return err
	}

	if err := d.notify(ctx, s, playerID, ch, 0); err != nil {
		return err
	}
	if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.Empty{}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleHeroRedDotRead(_ context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroRedDotReadRequest) error {
	if _, err := s.PlayerID(); err != nil {
		return err
	}
	heroID := redDotFallbackHero
	if req.HasHeroID {
		heroID = req.HeroID
	}
	return s.Reply(pkt.Cmd, &msg.HeroRedDotReadReply{HeroID: heroID, Value: redDotReadValue}, apperr.StatusOK, pkt.UpTag)
}

// editHero loads a hero, applies fn and writes it back when fn reports a
// change. The refreshed hero is pushed before the caller replies.
func (d *Deps) editHero(ctx context.Context, s *net.Session, heroID int32, fn func(h *persist.HeroRow) bool) (*persist.HeroRow, error) {
	playerID, err := s.PlayerID()
	if err != nil {
		return nil, err
	}
	var h *persist.HeroRow
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, heroID); err != nil {
			return err
		}
		if !fn(h) {
			return nil
		}
		return updateHero(ctx, tx, h)
	})
	if err != nil {
		return nil, err
	}
	return h, d.pushHeroRow(ctx, s, h)
}

func (d *Deps) handleUnMarkIsNew(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UnMarkIsNewRequest) error {
	_, err := d.editHero(ctx, s, req.HeroID, func(h *persist.HeroRow) bool {
		if !h.IsNew {
			return false
		}
		h.IsNew = false
		return true
	})
	if err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.UnMarkIsNewReply{HeroID: req.HeroID}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleDestinyStoneUse(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.DestinyStoneUseRequest) error {
	if req.Value == 0 {
		return apperr.Invalid("destiny stone id missing")
	}
	_, err := d.editHero(ctx, s, req.HeroID, func(h *persist.HeroRow) bool {
		h.DestinyStone = req.Value
		return true
	})
	if err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.DestinyStoneUseReply{HeroID: req.HeroID, Value: req.Value}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleChoiceHero3123Weapon(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.ChoiceHero3123WeaponRequest) error {
	if req.MainID == 0 || req.SubID == 0 {
		return apperr.Invalid("weapon choice incomplete")
	}
	_, err := d.editHero(ctx, s, req.HeroID, func(h *persist.HeroRow) bool {
		h.SpecialEquip = fmt.Sprintf("%d#%d", req.MainID, req.SubID)
		return true
	})
	if err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.ChoiceHero3123WeaponReply{HeroID: req.HeroID, MainID: req.MainID, SubID: req.SubID}, apperr.StatusOK, pkt.UpTag)
}
