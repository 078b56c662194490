package handler

import (
	"context"
	"errors"
	"time"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/auth"
	"github.com/sonettogo/server/internal/component"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/progress"
	"go.uber.org/zap"
)

const logoutTimeout = 5 * time.Second

// handleLogin authenticates the account, seeds a first-time player and binds
// the session.
func (d *Deps) handleLogin(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.LoginRequest) error {
	now := d.now()
	acct, created, err := d.Auth.Authenticate(ctx, req.Account, req.Password, req.Token, now)
	switch {
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrNoAccount),
		errors.Is(err, auth.ErrEmptyName),
		errors.Is(err, auth.ErrAccountOnline):
		s.Log().Info("login rejected", zap.String("account", req.Account), zap.Error(err))
		return apperr.Invalid("login: %v", err)
	case err != nil:
		return apperr.Storage("login", err)
	}

	log := s.Log().With(zap.Int64("player", acct.PlayerID), zap.String("account", acct.Name))
	// From here the account is marked online; undo that if binding fails.
	bound := false
	defer func() {
		if !bound {
			d.logout(acct.PlayerID, log)
		}
	}()

	if created {
		if err := progress.SeedStarter(ctx, d.Store, d.Catalogue, acct.PlayerID, now); err != nil {
			return err
		}
		log.Info("starter kit seeded")
	}

	row, err := d.Store.LoadPlayerState(ctx, acct.PlayerID)
	if err != nil {
		return apperr.Storage("load player state", err)
	}
	st := component.NewPlayerState(acct.PlayerID, d.Calendar)
	if row != nil {
		st.MonthCardClaimedAt = row.MonthCardClaimedAt
		st.ActivityPushedAt = row.ActivityPushedAt
	}

	s.Bind(component.Account{PlayerID: acct.PlayerID, Name: acct.Name}, st, d.savePlayerState)
	s.OnClose(func(*net.Session) { d.logout(acct.PlayerID, log) })
	bound = true
	log.Info("player logged in", zap.Bool("new", created))

	return s.Reply(pkt.Cmd, &msg.LoginReply{
		PlayerID:   acct.PlayerID,
		ServerTime: now,
		IsNew:      created,
	}, apperr.StatusOK, pkt.UpTag)
}

func (d *Deps) savePlayerState(ctx context.Context, st component.PlayerState) error {
	err := d.Store.SavePlayerState(ctx, persist.PlayerStateRow{
		PlayerID:           st.PlayerID,
		MonthCardClaimedAt: st.MonthCardClaimedAt,
		ActivityPushedAt:   st.ActivityPushedAt,
	})
	return apperr.Storage("save player state", err)
}

// logout runs after the session context is gone, so it gets its own.
func (d *Deps) logout(playerID int64, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
	defer cancel()
	if err := d.Auth.Logout(ctx, playerID, d.now()); err != nil {
		log.Error("logout failed", zap.Error(err))
	}
}

func (d *Deps) handleHeartbeat(_ context.Context, s *net.Session, pkt *packet.Packet) error {
	return s.Reply(pkt.Cmd, &msg.HeartbeatReply{ServerTime: d.now()}, apperr.StatusOK, pkt.UpTag)
}
