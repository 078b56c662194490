package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type HeroAttribute struct {
	HP       int32
	Attack   int32
	Defense  int32
	Mdefense int32
	Technic  int32
}

func (m *HeroAttribute) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HP)
	w.Int32(2, m.Attack)
	w.Int32(3, m.Defense)
	w.Int32(4, m.Mdefense)
	w.Int32(5, m.Technic)
}

func (m *HeroAttribute) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HP = r.Int32()
		case 2:
			m.Attack = r.Int32()
		case 3:
			m.Defense = r.Int32()
		case 4:
			m.Mdefense = r.Int32()
		case 5:
			m.Technic = r.Int32()
		default:
			r.Skip()
		}
	})
}

type HeroExAttribute struct {
	Cri     int32
	Recri   int32
	CriDmg  int32
	CriDef  int32
	AddDmg  int32
	DropDmg int32
}

func (m *HeroExAttribute) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.Cri)
	w.Int32(2, m.Recri)
	w.Int32(3, m.CriDmg)
	w.Int32(4, m.CriDef)
	w.Int32(5, m.AddDmg)
	w.Int32(6, m.DropDmg)
}

type TalentCubeInfo struct {
	CubeID    int32
	Direction int32
	PosX      int32
	PosY      int32
}

func (m *TalentCubeInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.CubeID)
	w.Int32(2, m.Direction)
	w.Int32(3, m.PosX)
	w.Int32(4, m.PosY)
}

func (m *TalentCubeInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.CubeID = r.Int32()
		case 2:
			m.Direction = r.Int32()
		case 3:
			m.PosX = r.Int32()
		case 4:
			m.PosY = r.Int32()
		default:
			r.Skip()
		}
	})
}

type TalentTemplateInfo struct {
	ID              int32
	TalentCubeInfos []*TalentCubeInfo
	Name            string
	Style           int32
}

func (m *TalentTemplateInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.ID)
	for _, c := range m.TalentCubeInfos {
		w.Message(2, c)
	}
	w.String(3, m.Name)
	w.Int32(4, m.Style)
}

func (m *TalentTemplateInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.ID = r.Int32()
		case 2:
			c := &TalentCubeInfo{}
			r.Message(c)
			m.TalentCubeInfos = append(m.TalentCubeInfos, c)
		case 3:
			m.Name = r.Str()
		case 4:
			m.Style = r.Int32()
		default:
			r.Skip()
		}
	})
}

type HeroSkin struct {
	Skin      int32
	ExpireSec int64
}

func (m *HeroSkin) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.Skin)
	w.Int64(2, m.ExpireSec)
}

type HeroInfo struct {
	UID                 int64
	HeroID              int32
	CreateTime          int64
	Level               int32
	Exp                 int32
	Rank                int32
	Breakthrough        int32
	Skin                int32
	Faith               int32
	ActiveSkillLevel    int32
	ExSkillLevel        int32
	Talent              int32
	DefaultEquipUID     int64
	IsNew               bool
	IsFavor             bool
	TalentCubeInfos     []*TalentCubeInfo
	DestinyStone        int32
	SpecialEquip        string
	BaseAttr            *HeroAttribute
	ExAttr              *HeroExAttribute
	TalentTemplates     []*TalentTemplateInfo
	UseTalentTemplateID int32
	TalentStyleUnlock   int32
	TalentStyleRed      int32
	SkinInfoList        []*HeroSkin
	RedDot              int32
}

func (m *HeroInfo) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.UID)
	w.Int32(2, m.HeroID)
	w.Int64(3, m.CreateTime)
	w.Int32(4, m.Level)
	w.Int32(5, m.Exp)
	w.Int32(6, m.Rank)
	w.Int32(7, m.Breakthrough)
	w.Int32(8, m.Skin)
	w.Int32(9, m.Faith)
	w.Int32(10, m.ActiveSkillLevel)
	w.Int32(11, m.ExSkillLevel)
	w.Int32(12, m.Talent)
	w.Int64(13, m.DefaultEquipUID)
	w.Bool(14, m.IsNew)
	w.Bool(15, m.IsFavor)
	for _, c := range m.TalentCubeInfos {
		w.Message(16, c)
	}
	w.Int32(17, m.DestinyStone)
	w.String(18, m.SpecialEquip)
	if m.BaseAttr != nil {
		w.Message(19, m.BaseAttr)
	}
	if m.ExAttr != nil {
		w.Message(20, m.ExAttr)
	}
	for _, t := range m.TalentTemplates {
		w.Message(21, t)
	}
	w.Int32(22, m.UseTalentTemplateID)
	w.Int32(23, m.TalentStyleUnlock)
	w.Int32(24, m.TalentStyleRed)
	for _, s := range m.SkinInfoList {
		w.Message(25, s)
	}
	w.Int32(26, m.RedDot)
}

// UnmarshalWire decodes the fields a client needs to refresh its hero view.
func (m *HeroInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.UID = r.Int64()
		case 2:
			m.HeroID = r.Int32()
		case 4:
			m.Level = r.Int32()
		case 6:
			m.Rank = r.Int32()
		case 8:
			m.Skin = r.Int32()
		case 11:
			m.ExSkillLevel = r.Int32()
		case 12:
			m.Talent = r.Int32()
		case 14:
			m.IsNew = r.Bool()
		case 16:
			c := &TalentCubeInfo{}
			r.Message(c)
			m.TalentCubeInfos = append(m.TalentCubeInfos, c)
		case 17:
			m.DestinyStone = r.Int32()
		case 18:
			m.SpecialEquip = r.Str()
		case 19:
			m.BaseAttr = &HeroAttribute{}
			r.Message(m.BaseAttr)
		case 21:
			t := &TalentTemplateInfo{}
			r.Message(t)
			m.TalentTemplates = append(m.TalentTemplates, t)
		case 22:
			m.UseTalentTemplateID = r.Int32()
		case 23:
			m.TalentStyleUnlock = r.Int32()
		case 24:
			m.TalentStyleRed = r.Int32()
		default:
			r.Skip()
		}
	})
}

type HeroBirthdayInfo struct {
	HeroID        int32
	BirthdayCount int32
}

func (m *HeroBirthdayInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.BirthdayCount)
}

type HeroInfoListReply struct {
	Heros          []*HeroInfo
	TouchCountLeft int32
	AllHeroSkin    []int32
	BirthdayInfos  []*HeroBirthdayInfo
}

func (m *HeroInfoListReply) MarshalWire(w *packet.Writer) {
	for _, h := range m.Heros {
		w.Message(1, h)
	}
	w.Int32(2, m.TouchCountLeft)
	w.PackedInt32s(3, m.AllHeroSkin)
	for _, b := range m.BirthdayInfos {
		w.Message(4, b)
	}
}

func (m *HeroInfoListReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			h := &HeroInfo{}
			r.Message(h)
			m.Heros = append(m.Heros, h)
		case 2:
			m.TouchCountLeft = r.Int32()
		case 3:
			m.AllHeroSkin = r.AppendInt32s(m.AllHeroSkin)
		default:
			r.Skip()
		}
	})
}

type HeroUpdatePush struct {
	HeroUpdates []*HeroInfo
}

func (m *HeroUpdatePush) MarshalWire(w *packet.Writer) {
	for _, h := range m.HeroUpdates {
		w.Message(1, h)
	}
}

func (m *HeroUpdatePush) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num != 1 {
			r.Skip()
			return
		}
		h := &HeroInfo{}
		r.Message(h)
		m.HeroUpdates = append(m.HeroUpdates, h)
	})
}

type HeroLevelUpUpdatePush struct {
	HeroID   int32
	NewLevel int32
	NewRank  int32
}

func (m *HeroLevelUpUpdatePush) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.NewLevel)
	w.Int32(3, m.NewRank)
}

func (m *HeroLevelUpUpdatePush) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.NewLevel = r.Int32()
		case 3:
			m.NewRank = r.Int32()
		default:
			r.Skip()
		}
	})
}

// HeroIDMessage is the shape shared by every request and reply that carries
// only a hero id.
type HeroIDMessage struct {
	HeroID int32
}

func (m *HeroIDMessage) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
}

func (m *HeroIDMessage) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num == 1 {
			m.HeroID = r.Int32()
			return
		}
		r.Skip()
	})
}

type (
	UnMarkIsNewRequest     = HeroIDMessage
	UnMarkIsNewReply       = HeroIDMessage
	HeroRankUpRequest      = HeroIDMessage
	HeroTalentUpRequest    = HeroIDMessage
	TalentStyleReadRequest = HeroIDMessage
	TalentStyleReadReply   = HeroIDMessage
)

// HeroPair is a request or reply of a hero id and one value.
type HeroPair struct {
	HeroID int32
	Value  int32
}

func (m *HeroPair) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.Value)
}

func (m *HeroPair) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.Value = r.Int32()
		default:
			r.Skip()
		}
	})
}

// Field 2 is expect_level, new_level, new_rank, talent_id, stone_id,
// style or red_dot depending on the command.
type (
	HeroLevelUpRequest       = HeroPair
	HeroLevelUpReply         = HeroPair
	HeroRankUpReply          = HeroPair
	HeroTalentUpReply        = HeroPair
	DestinyStoneUseRequest   = HeroPair
	DestinyStoneUseReply     = HeroPair
	UnlockTalentStyleRequest = HeroPair
	UnlockTalentStyleReply   = HeroPair
	HeroRedDotReadReply      = HeroPair
)

type HeroRedDotReadRequest struct {
	HeroID    int32
	HasHeroID bool
	RedDot    int32
}

func (m *HeroRedDotReadRequest) MarshalWire(w *packet.Writer) {
	if m.HasHeroID {
		w.Int32(1, m.HeroID)
	}
	w.Int32(2, m.RedDot)
}

func (m *HeroRedDotReadRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
			m.HasHeroID = true
		case 2:
			m.RedDot = r.Int32()
		default:
			r.Skip()
		}
	})
}

type HeroUpgradeSkillRequest struct {
	HeroID  int32
	Type    int32
	Consume int32 // 0 means 1
}

func (m *HeroUpgradeSkillRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.Type)
	if m.Consume != 0 {
		w.Int32(3, m.Consume)
	}
}

func (m *HeroUpgradeSkillRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.Type = r.Int32()
		case 3:
			m.Consume = r.Int32()
		default:
			r.Skip()
		}
	})
}

type ChoiceHero3123WeaponRequest struct {
	HeroID int32
	MainID int32
	SubID  int32
}

func (m *ChoiceHero3123WeaponRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int32(2, m.MainID)
	w.Int32(3, m.SubID)
}

func (m *ChoiceHero3123WeaponRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.MainID = r.Int32()
		case 3:
			m.SubID = r.Int32()
		default:
			r.Skip()
		}
	})
}

type ChoiceHero3123WeaponReply = ChoiceHero3123WeaponRequest
