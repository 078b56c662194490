package handler

import (
	"context"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"go.uber.org/zap"
)

// handleDeleteOfflineMsg acknowledges with an empty chat push; offline
// messages are not stored.
func (d *Deps) handleDeleteOfflineMsg(_ context.Context, s *net.Session, pkt *packet.Packet) error {
	if _, err := s.PlayerID(); err != nil {
		return err
	}
	if err := s.Push(packet.CmdChatMsgPush, &msg.ChatMsgPush{}); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.Empty{}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) handleFightEndFight(_ context.Context, s *net.Session, pkt *packet.Packet, req *msg.EndFightRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	if req.IsAbort == nil {
		return apperr.Invalid("end fight without is_abort")
	}
	s.SetActiveBattle("")
	s.Log().Debug("fight ended", zap.Int64("player", playerID), zap.Bool("abort", *req.IsAbort))
	return s.Reply(pkt.Cmd, &msg.Empty{}, apperr.StatusOK, pkt.UpTag)
}
