package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type PutTalentCubeRequest struct {
	HeroID      int32
	GetCubeInfo *TalentCubeInfo // removed from its slot
	PutCubeInfo *TalentCubeInfo // written to its slot
	TemplateID  int32
}

func (m *PutTalentCubeRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	if m.GetCubeInfo != nil {
		w.Message(2, m.GetCubeInfo)
	}
	if m.PutCubeInfo != nil {
		w.Message(3, m.PutCubeInfo)
	}
	w.Int32(4, m.TemplateID)
}

func (m *PutTalentCubeRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.GetCubeInfo = &TalentCubeInfo{}
			r.Message(m.GetCubeInfo)
		case 3:
			m.PutCubeInfo = &TalentCubeInfo{}
			r.Message(m.PutCubeInfo)
		case 4:
			m.TemplateID = r.Int32()
		default:
			r.Skip()
		}
	})
}

// HeroTemplateReply answers every command that edits or selects a talent
// template.
type HeroTemplateReply struct {
	HeroID       int32
	TemplateInfo *TalentTemplateInfo
}

func (m *HeroTemplateReply) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	if m.TemplateInfo != nil {
		w.Message(2, m.TemplateInfo)
	}
}

func (m *HeroTemplateReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.TemplateInfo = &TalentTemplateInfo{}
			r.Message(m.TemplateInfo)
		default:
			r.Skip()
		}
	})
}

type (
	PutTalentCubeReply     = HeroTemplateReply
	PutTalentSchemeReply   = HeroTemplateReply
	UseTalentTemplateReply = HeroTemplateReply
)

type PutTalentSchemeRequest struct {
	HeroID      int32
	TalentID    int32
	TalentMould int32
	TemplateID  int32
}

func (m *PutTalentSchemeRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.TalentID)
	w.Int32(3, m.TalentMould)
	w.Int32(4, m.TemplateID)
}

func (m *PutTalentSchemeRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.TalentID = r.Int32()
		case 3:
			m.TalentMould = r.Int32()
		case 4:
			m.TemplateID = r.Int32()
		default:
			r.Skip()
		}
	})
}

type UseTalentTemplateRequest struct {
	HeroID     int32
	TemplateID int32
}

func (m *UseTalentTemplateRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.TemplateID)
}

func (m *UseTalentTemplateRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.TemplateID = r.Int32()
		default:
			r.Skip()
		}
	})
}

type UseTalentStyleRequest struct {
	HeroID     int32
	TemplateID int32
	Style      int32
}

func (m *UseTalentStyleRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.TemplateID)
	w.Int32(3, m.Style)
}

func (m *UseTalentStyleRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.TemplateID = r.Int32()
		case 3:
			m.Style = r.Int32()
		default:
			r.Skip()
		}
	})
}

type UseTalentStyleReply = UseTalentStyleRequest
