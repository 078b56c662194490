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
	"go.uber.org/zap"
)

func loadTemplate(ctx context.Context, st persist.TalentStore, h *persist.HeroRow, templateID int32) (*persist.TalentTemplateRow, error) {
	tpl, err := st.LoadTalentTemplate(ctx, h.UID, templateID)
	if err != nil {
		return nil, apperr.Storage("load talent template", err)
	}
	if tpl == nil {
		return nil, apperr.Invalid("hero %d has no template %d", h.HeroID, templateID)
	}
	return tpl, nil
}

func (d *Deps) handleTalentStyleRead(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.TalentStyleReadRequest) error {
	if _, err := d.editHero(ctx, s, req.HeroID, func(*persist.HeroRow) bool { return false }); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.TalentStyleReadReply{HeroID: req.HeroID}, apperr.StatusOK, pkt.UpTag)
}

// handleHeroTalentStyleStat clears the talent style red dot.
func (d *Deps) handleHeroTalentStyleStat(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroIDMessage) error {
	_, err := d.editHero(ctx, s, req.HeroID, func(h *persist.HeroRow) bool {
		if h.TalentStyleRed == 0 {
			return false
		}
		h.TalentStyleRed = 0
		return true
	})
	if err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.HeroIDMessage{HeroID: req.HeroID}, apperr.StatusOK, pkt.UpTag)
}

// handleUnlockTalentStyle buys a talent style for a hero.
func (d *Deps) handleUnlockTalentStyle(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UnlockTalentStyleRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	log := s.Log().With(zap.Int64("player", playerID), zap.Int32("hero", req.HeroID), zap.Int32("style", req.Value))
	style := req.Value
	if style < 0 || style > 30 {
		return apperr.Invalid("talent style %d out of range", style)
	}
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
		owned, err := tx.HasTalentStyle(ctx, h.UID, style)
		if err != nil {
			return apperr.Storage("check talent style", err)
		}
		if owned {
			res = unchanged
			return nil
		}
		rule := d.Catalogue.TalentStyleCost(h.HeroID, style)
		if rule == nil {
			return apperr.Invalid("hero %d has no talent style %d", h.HeroID, style)
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
		if err := tx.AddTalentStyle(ctx, h.UID, style); err != nil {
			return apperr.Storage("add talent style", err)
		}
		h.TalentStyleUnlock |= 1 << style
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
		log.Info("talent style unlocked")
		if err := d.notify(ctx, s, playerID, ch, 0); err != nil {
			return err
		}
		if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
			return err
		}
	}
	return s.Reply(pkt.Cmd, &msg.UnlockTalentStyleReply{HeroID: req.HeroID, Value: style}, apperr.StatusOK, pkt.UpTag)
}

// handleUseTalentStyle sets the style of one template. Style 0 is the
// default and always available.
func (d *Deps) handleUseTalentStyle(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UseTalentStyleRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	var h *persist.HeroRow
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		if req.Style != 0 {
			owned, err := tx.HasTalentStyle(ctx, h.UID, req.Style)
			if err != nil {
				return apperr.Storage("check talent style", err)
			}
			if !owned {
				return apperr.Invalid("hero %d does not own style %d", h.HeroID, req.Style)
			}
		}
		tpl, err := loadTemplate(ctx, tx, h, req.TemplateID)
		if err != nil {
			return err
		}
		return apperr.Storage("set template style", tx.SetTemplateStyle(ctx, tpl.RowID, req.Style))
	})
	if err != nil {
		return err
	}
	if err := d.pushHeroRow(ctx, s, h); err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.UseTalentStyleReply{HeroID: req.HeroID, TemplateID: req.TemplateID, Style: req.Style}, apperr.StatusOK, pkt.UpTag)
}

// handleHeroTalentUp raises the hero's talent by one. Only the item lines of
// the talent cost are charged.
func (d *Deps) handleHeroTalentUp(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.HeroTalentUpRequest) error {
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
		rule := d.Catalogue.Talent(h.HeroID, h.Talent+1)
		if rule == nil || h.Rank < rule.Requirement {
			res = unchanged
			return nil
		}
		cost := progress.Price(rule.Consume, log).ItemsOnly()
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
		h.Talent++
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
		log.Info("hero talent up", zap.Int32("talent", h.Talent))
		if err := d.notify(ctx, s, playerID, ch, 0); err != nil {
			return err
		}
		if err := d.sendHeroUpdatePush(ctx, s, playerID, h.HeroID); err != nil {
			return err
		}
	}
	return s.Reply(pkt.Cmd, &msg.HeroTalentUpReply{HeroID: h.HeroID, Value: h.Talent}, apperr.StatusOK, pkt.UpTag)
}

// handlePutTalentCube removes and places single cubes on a template. The
// active layout follows when the template is in use.
func (d *Deps) handlePutTalentCube(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.PutTalentCubeRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	var (
		h   *persist.HeroRow
		tpl *persist.TalentTemplateRow
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		if tpl, err = loadTemplate(ctx, tx, h, req.TemplateID); err != nil {
			return err
		}
		active := h.UseTalentTemplateID == tpl.TemplateID

		if c := req.GetCubeInfo; c != nil {
			if err := tx.DeleteTemplateCube(ctx, tpl.RowID, c.PosX, c.PosY); err != nil {
				return apperr.Storage("delete template cube", err)
			}
			if active {
				if err := tx.DeleteActiveCube(ctx, h.UID, c.PosX, c.PosY); err != nil {
					return apperr.Storage("delete active cube", err)
				}
			}
		}
		if c := req.PutCubeInfo; c != nil {
			cube := persist.CubeRow{CubeID: c.CubeID, Direction: c.Direction, X: c.PosX, Y: c.PosY}
			if err := tx.DeleteTemplateCube(ctx, tpl.RowID, c.PosX, c.PosY); err != nil {
				return apperr.Storage("delete template cube", err)
			}
			if err := tx.PutTemplateCube(ctx, tpl.RowID, cube); err != nil {
				return apperr.Storage("put template cube", err)
			}
			if active {
				if err := tx.DeleteActiveCube(ctx, h.UID, c.PosX, c.PosY); err != nil {
					return apperr.Storage("delete active cube", err)
				}
				if err := tx.PutActiveCube(ctx, h.UID, cube); err != nil {
					return apperr.Storage("put active cube", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return d.replyTemplate(ctx, s, pkt, h, tpl)
}

// handlePutTalentScheme replaces a template's cubes with a catalogue layout.
func (d *Deps) handlePutTalentScheme(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.PutTalentSchemeRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	scheme := d.Catalogue.TalentScheme(req.TalentID, req.TalentMould)
	if scheme == nil {
		return apperr.Invalid("no talent scheme for talent %d mould %d", req.TalentID, req.TalentMould)
	}
	cubes := schemeCubes(data.ParseCubeLayout(scheme.TalenScheme))

	var (
		h   *persist.HeroRow
		tpl *persist.TalentTemplateRow
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		if tpl, err = loadTemplate(ctx, tx, h, req.TemplateID); err != nil {
			return err
		}
		if err := tx.ReplaceTemplateCubes(ctx, tpl.RowID, cubes); err != nil {
			return apperr.Storage("replace template cubes", err)
		}
		if h.UseTalentTemplateID == tpl.TemplateID {
			return apperr.Storage("replace active cubes", tx.ReplaceActiveCubes(ctx, h.UID, cubes))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return d.replyTemplate(ctx, s, pkt, h, tpl)
}

// handleUseTalentTemplate activates a template, copying its cubes into the
// hero's active layout.
func (d *Deps) handleUseTalentTemplate(ctx context.Context, s *net.Session, pkt *packet.Packet, req *msg.UseTalentTemplateRequest) error {
	playerID, err := s.PlayerID()
	if err != nil {
		return err
	}
	var (
		h   *persist.HeroRow
		tpl *persist.TalentTemplateRow
	)
	err = d.Store.InTx(ctx, func(tx persist.Store) error {
		var err error
		if h, err = loadHero(ctx, tx, playerID, req.HeroID); err != nil {
			return err
		}
		if tpl, err = loadTemplate(ctx, tx, h, req.TemplateID); err != nil {
			return err
		}
		cubes, err := tx.TemplateCubes(ctx, tpl.RowID)
		if err != nil {
			return apperr.Storage("load template cubes", err)
		}
		if err := tx.ReplaceActiveCubes(ctx, h.UID, cubes); err != nil {
			return apperr.Storage("replace active cubes", err)
		}
		h.UseTalentTemplateID = tpl.TemplateID
		return updateHero(ctx, tx, h)
	})
	if err != nil {
		return err
	}
	return d.replyTemplate(ctx, s, pkt, h, tpl)
}

// replyTemplate pushes the hero, then answers with the committed template.
func (d *Deps) replyTemplate(ctx context.Context, s *net.Session, pkt *packet.Packet, h *persist.HeroRow, tpl *persist.TalentTemplateRow) error {
	if err := d.pushHeroRow(ctx, s, h); err != nil {
		return err
	}
	info, err := templateInfo(ctx, d.Store, tpl)
	if err != nil {
		return err
	}
	return s.Reply(pkt.Cmd, &msg.HeroTemplateReply{HeroID: h.HeroID, TemplateInfo: info}, apperr.StatusOK, pkt.UpTag)
}
