package handler

import (
	"context"
	"strings"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/component"
	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/progress"
	"go.uber.org/zap"
)

func (d *Deps) handleGetChargeInfo(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	charges, err := d.Store.ListCharges(ctx, playerID)
	if err != nil {
		return apperr.Storage("list charges", err)
	}
	stats, err := d.Store.LoadUserStats(ctx, playerID)
	if err != nil {
		return apperr.Storage("load user stats", err)
	}

	reply := &msg.GetChargeInfoReply{}
	for _, c := range charges {
		reply.Infos = append(reply.Infos, &msg.ChargeInfo{ID: c.GoodsID, BuyCount: c.BuyCount, FirstCharge: c.FirstCharge})
	}
	if stats != nil {
		reply.SandboxEnable = stats.SandboxEnable
		reply.SandboxBalance = stats.SandboxBalance
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleReadChargeNew(_ context.Context, s *net.Session, pkt *packet.Packet, req *msg.ReadChargeNewRequest) error {
	if _, err := s.PlayerID(); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.ReadChargeNewReply{GoodsIDs: req.GoodsIDs}, apperr.StatusOK, pkt.UpTag)
}

// handleGetChargePushInfo has nothing to report; the client only needs the ack.
func (d *Deps) handleGetChargePushInfo(_ context.Context, s *net.Session, pkt *packet.Packet) error {
	return s.EmptyReply(pkt.Cmd, nil, apperr.StatusOK, pkt.UpTag)
}

// handleGetMonthCardInfo reports the active month cards and claims today's
// bonus on the way.
func (d *Deps) handleGetMonthCardInfo(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	if d.Config.Charge.MonthCardSource == config.MonthCardFromFixture {
		return d.fixtureMonthCard(ctx, s, pkt)
	}

	now := d.now()
	log := s.Log().With(zap.Int64("player", playerID))

	cards, err := d.Store.ActiveMonthCards(ctx, playerID, now/1000)
	if err != nil {
		return apperr.Storage("list month cards", err)
	}
	if len(cards) == 0 {
		return s.Reply(pkt.Cmd, &msg.GetMonthCardInfoReply{}, apperr.StatusOK, pkt.UpTag)
	}

	day := d.Calendar.ServerDay(now)
	claimed, err := d.Store.HasMonthCardClaim(ctx, playerID, day)
	if err != nil {
		return apperr.Storage("check month card claim", err)
	}

	var granted bool
	var ch progress.Changes
	if !claimed {
		bonus := d.dailyBonus(cards, log)
		err = d.Store.InTx(ctx, func(tx persist.Store) error {
			inserted, err := tx.RecordMonthCardClaim(ctx, playerID, day, int32(d.Calendar.DayOfMonth(now)))
			if err != nil {
				return apperr.Storage("record month card claim", err)
			}
			if !inserted {
				return nil
			}
			ch, err = progress.Grant(ctx, tx, d.Catalogue, playerID, bonus, now)
			if err != nil {
				return err
			}
			granted = true
			return nil
		})
		if err != nil {
			return err
		}
	}

	if granted {
		log.Info("month card daily bonus claimed", zap.Int64("server_day", day), zap.Int("cards", len(cards)))
		if err := s.UpdateAndSavePlayerState(ctx, func(st *component.PlayerState) {
			st.ClaimMonthCard(now)
			st.MarkActivityPushesSent(now)
		}); err != nil {
			return err
		}
		if err := d.notify(ctx, s, playerID, ch, msg.ApproachMonthCard); err != nil {
			return err
		}
		if err := d.sendRedDotPush(s, []int32{redDotMonthCard}); err != nil {
			return err
		}
		if len(ch.Heroes) > 0 {
			if err := d.sendHeroUpdatePush(ctx, s, playerID, ch.Heroes...); err != nil {
				return err
			}
		}
	}

	// Whether claimed now or earlier today, the bonus is taken.
	reply := &msg.GetMonthCardInfoReply{}
	for _, c := range cards {
		reply.Infos = append(reply.Infos, &msg.MonthCardInfo{ID: c.CardID, ExpireTime: int32(c.EndTime), HasGetBonus: true})
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

// dailyBonus joins the daily_bonus of every active card and parses it once.
func (d *Deps) dailyBonus(cards []persist.MonthCardRow, log *zap.Logger) data.Effects {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		mc := d.Catalogue.MonthCard(c.CardID)
		if mc == nil {
			log.Warn("active month card missing from catalogue", zap.Int32("card", c.CardID))
			continue
		}
		if mc.DailyBonus != "" {
			parts = append(parts, mc.DailyBonus)
		}
	}
	return data.ParseEffects(strings.Join(parts, "|"), log)
}

// fixtureMonthCard reports the single configured card and gates the claim on
// the session's player state. Only the red dot is refreshed.
func (d *Deps) fixtureMonthCard(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	now := d.now()
	st, ok := s.PlayerState()
	if !ok {
		return apperr.ErrNotLoggedIn
	}
	canClaim := st.CanClaimMonthCard(now)
	if canClaim {
		if err := d.sendRedDotPush(s, []int32{redDotMonthCard}); err != nil {
			return err
		}
		if err := s.UpdateAndSavePlayerState(ctx, func(st *component.PlayerState) {
			st.ClaimMonthCard(now)
			st.MarkActivityPushesSent(now)
		}); err != nil {
			return err
		}
	}
	cfg := d.Config.Charge
	return s.Reply(pkt.Cmd, &msg.GetMonthCardInfoReply{Infos: []*msg.MonthCardInfo{{
		ID:          cfg.FixtureCardID,
		ExpireTime:  cfg.FixtureCardExpire,
		HasGetBonus: !canClaim,
	}}}, apperr.StatusOK, pkt.UpTag)
}
