package handler

import (
	"context"
	"math/rand/v2"

	"github.com/sonettogo/server/internal/auth"
	"github.com/sonettogo/server/internal/config"
	"github.com/sonettogo/server/internal/data"
	"github.com/sonettogo/server/internal/msg"
	"github.com/sonettogo/server/internal/net"
	"github.com/sonettogo/server/internal/net/packet"
	"github.com/sonettogo/server/internal/persist"
	"github.com/sonettogo/server/internal/servertime"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all command handlers.
type Deps struct {
	Store     persist.Store
	Catalogue *data.Catalogue
	Auth      *auth.Authenticator
	Config    *config.Config
	Clock     servertime.Clock
	Calendar  servertime.Calendar
	Log       *zap.Logger

	// NewRand returns the random source for one reward roll. Nil uses a
	// freshly seeded PCG.
	NewRand func() *rand.Rand
}

func (d *Deps) rng() *rand.Rand {
	if d.NewRand != nil {
		return d.NewRand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (d *Deps) now() int64 { return d.Clock.NowMS() }

// typed decodes the body into a fresh request before fn runs.
func typed[T any, PT interface {
	*T
	packet.Unmarshaler
}](fn func(context.Context, *net.Session, *packet.Packet, PT) error) packet.HandlerFunc {
	return packet.Handle[T, PT](func(ctx context.Context, sess any, pkt *packet.Packet, req PT) error {
		return fn(ctx, sess.(*net.Session), pkt, req)
	})
}

// bare is for commands whose request body carries nothing.
func bare(fn func(ctx context.Context, s *net.Session, pkt *packet.Packet) error) packet.HandlerFunc {
	return typed(func(ctx context.Context, s *net.Session, pkt *packet.Packet, _ *msg.Empty) error {
		return fn(ctx, s, pkt)
	})
}

// RegisterAll registers all command handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// Login phase
	reg.Register(packet.CmdLogin,
		[]packet.SessionState{packet.StateConnected},
		typed(deps.handleLogin),
	)
	reg.Register(packet.CmdHeartbeat,
		[]packet.SessionState{packet.StateConnected, packet.StateAuthenticated},
		bare(deps.handleHeartbeat),
	)

	// Everything else needs a bound player.
	authed := []packet.SessionState{packet.StateAuthenticated}

	// Charge
	reg.Register(packet.CmdGetChargeInfo, authed, bare(deps.handleGetChargeInfo))
	reg.Register(packet.CmdGetMonthCardInfo, authed, bare(deps.handleGetMonthCardInfo))
	reg.Register(packet.CmdReadChargeNew, authed, typed(deps.handleReadChargeNew))
	reg.Register(packet.CmdGetChargePushInfo, authed, bare(deps.handleGetChargePushInfo))

	// Heroes
	reg.Register(packet.CmdHeroInfoList, authed, bare(deps.handleHeroInfoList))
	reg.Register(packet.CmdHeroLevelUp, authed, typed(deps.handleHeroLevelUp))
	reg.Register(packet.CmdHeroRankUp, authed, typed(deps.handleHeroRankUp))
	reg.Register(packet.CmdHeroUpgradeSkill, authed, typed(deps.handleHeroUpgradeSkill))
	reg.Register(packet.CmdHeroRedDotRead, authed, typed(deps.handleHeroRedDotRead))
	reg.Register(packet.CmdUnMarkIsNew, authed, typed(deps.handleUnMarkIsNew))
	reg.Register(packet.CmdDestinyStoneUse, authed, typed(deps.handleDestinyStoneUse))
	reg.Register(packet.CmdChoiceHero3123Weapon, authed, typed(deps.handleChoiceHero3123Weapon))

	// Equipment and items
	reg.Register(packet.CmdEquipLock, authed, typed(deps.handleEquipLock))
	reg.Register(packet.CmdGetEquipInfo, authed, bare(deps.handleGetEquipInfo))
	reg.Register(packet.CmdGetItemList, authed, bare(deps.handleGetItemList))
	reg.Register(packet.CmdUseInsightItem, authed, typed(deps.handleUseInsightItem))
	reg.Register(packet.CmdUseItem, authed, typed(deps.handleUseItem))

	reg.Register(packet.CmdDeleteOfflineMsg, authed, bare(deps.handleDeleteOfflineMsg))
	reg.Register(packet.CmdFightEndFight, authed, typed(deps.handleFightEndFight))

	// Talents
	reg.Register(packet.CmdTalentStyleRead, authed, typed(deps.handleTalentStyleRead))
	reg.Register(packet.CmdHeroTalentStyleStat, authed, typed(deps.handleHeroTalentStyleStat))
	reg.Register(packet.CmdUnlockTalentStyle, authed, typed(deps.handleUnlockTalentStyle))
	reg.Register(packet.CmdUseTalentStyle, authed, typed(deps.handleUseTalentStyle))
	reg.Register(packet.CmdHeroTalentUp, authed, typed(deps.handleHeroTalentUp))
	reg.Register(packet.CmdPutTalentCube, authed, typed(deps.handlePutTalentCube))
	reg.Register(packet.CmdPutTalentScheme, authed, typed(deps.handlePutTalentScheme))
	reg.Register(packet.CmdUseTalentTemplate, authed, typed(deps.handleUseTalentTemplate))

	// Room
	reg.Register(packet.CmdGetRoomInfo, authed, bare(deps.handleGetRoomInfo))
	reg.Register(packet.CmdRoomPlaceBuilding, authed, typed(deps.handleRoomPlaceBuilding))
	reg.Register(packet.CmdRoomRemoveBuilding, authed, typed(deps.handleRoomRemoveBuilding))
}
