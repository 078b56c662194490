package handler

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
)

func (d *Deps) handleGetEquipInfo(ctx context.Context, s *net.Session, pkt *packet.Packet) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	rows, err := d.Store.ListEquips(ctx, playerID)
	if err != nil {
		return apperr.Storage("list equips", err)
	}
	reply := &msg.GetEquipInfoReply{}
	for _, r := range rows {
		reply.Equips = append(reply.Equips, equipMsg(r))
	}
	return s.Reply(pkt.Cmd, reply, apperr.StatusOK, pkt.UpTag)
}

// handleEquipLock toggles the lock flag. The refreshed equipment is pushed
// before the reply like every other mutation.
func (d *Deps) handleEquipLock(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.EquipLockRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		row, err := tx.LoadEquip(ctx, playerID, req.TargetUID)
		if err != nil {
			return apperr.Storage("load equip", err)
		}
		if row == nil {
			return apperr.Invalid("equip %d not owned", req.TargetUID)
		}
		return apperr.Storage("set equip lock", tx.SetEquipLock(ctx, playerID, req.TargetUID, req.Lock))
	})
	if err != nil {
		return err
	}
	if err := d.sendEquipUpdatePush(ctx, s, playerID, []int64{req.TargetUID}); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.EquipLockReply{TargetUID: req.TargetUID, Lock: req.Lock}, apperr.StatusOK, pkt.UpTag)
}
