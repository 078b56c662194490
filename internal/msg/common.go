// Package msg holds the wire messages exchanged with the client. Every type
// encodes with packet.Writer and decodes with packet.Reader; field numbers
// are part of the client contract and must not be renumbered.
package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

// Material type tags used by MaterialData and by design effect strings.
const (
	MaterialItem      int32 = 1
	MaterialCurrency  int32 = 2
	MaterialHero      int32 = 4
	MaterialEquip     int32 = 9
	MaterialPowerItem int32 = 10
)

// get_approach values reported with a material change push.
const (
	ApproachUseItem   int32 = 1
	ApproachMonthCard int32 = 10
)

type Empty struct{}

func (*Empty) MarshalWire(*packet.Writer) {}

func (*Empty) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(protowire.Number) { r.Skip() })
}

type Item struct {
	ItemID         int32
	Quantity       int32
	LastUseTime    int64
	LastUpdateTime int64
	TotalGainCount int64
}

func (m *Item) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.ItemID)
	w.Int32(2, m.Quantity)
	w.Int64(3, m.LastUseTime)
	w.Int64(4, m.LastUpdateTime)
	w.Int64(5, m.TotalGainCount)
}

func (m *Item) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.ItemID = r.Int32()
		case 2:
			m.Quantity = r.Int32()
		case 3:
			m.LastUseTime = r.Int64()
		case 4:
			m.LastUpdateTime = r.Int64()
		case 5:
			m.TotalGainCount = r.Int64()
		default:
			r.Skip()
		}
	})
}

type PowerItem struct {
	UID        int64
	ItemID     int32
	Quantity   int32
	CreateTime int64
}

func (m *PowerItem) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.UID)
	w.Int32(2, m.ItemID)
	w.Int32(3, m.Quantity)
	w.Int64(4, m.CreateTime)
}

func (m *PowerItem) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.UID = r.Int64()
		case 2:
			m.ItemID = r.Int32()
		case 3:
			m.Quantity = r.Int32()
		case 4:
			m.CreateTime = r.Int64()
		default:
			r.Skip()
		}
	})
}

// InsightItem shares the PowerItem layout.
type InsightItem = PowerItem

type Currency struct {
	CurrencyID      int32
	Quantity        int32
	LastRecoverTime int64
	ExpiredTime     int64
}

func (m *Currency) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.CurrencyID)
	w.Int32(2, m.Quantity)
	w.Int64(3, m.LastRecoverTime)
	w.Int64(4, m.ExpiredTime)
}

func (m *Currency) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.CurrencyID = r.Int32()
		case 2:
			m.Quantity = r.Int32()
		case 3:
			m.LastRecoverTime = r.Int64()
		case 4:
			m.ExpiredTime = r.Int64()
		default:
			r.Skip()
		}
	})
}

type Equip struct {
	EquipID  int32
	UID      int64
	Level    int32
	Exp      int32
	BreakLv  int32
	Count    int32
	IsLock   bool
	RefineLv int32
}

func (m *Equip) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.EquipID)
	w.Int64(2, m.UID)
	w.Int32(3, m.Level)
	w.Int32(4, m.Exp)
	w.Int32(5, m.BreakLv)
	w.Int32(6, m.Count)
	w.Bool(7, m.IsLock)
	w.Int32(8, m.RefineLv)
}

func (m *Equip) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.EquipID = r.Int32()
		case 2:
			m.UID = r.Int64()
		case 3:
			m.Level = r.Int32()
		case 4:
			m.Exp = r.Int32()
		case 5:
			m.BreakLv = r.Int32()
		case 6:
			m.Count = r.Int32()
		case 7:
			m.IsLock = r.Bool()
		case 8:
			m.RefineLv = r.Int32()
		default:
			r.Skip()
		}
	})
}

// MaterialData is one line of a material change digest. The misspelt field
// names follow the client schema.
type MaterialData struct {
	MaterilType int32
	MaterilID   int32
	Quantity    int32
}

func (m *MaterialData) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.MaterilType)
	w.Int32(2, m.MaterilID)
	w.Int32(3, m.Quantity)
}

func (m *MaterialData) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.MaterilType = r.Int32()
		case 2:
			m.MaterilID = r.Int32()
		case 3:
			m.Quantity = r.Int32()
		default:
			r.Skip()
		}
	})
}

type RedDotInfo struct {
	ID    int64
	Value int32
	Time  int64
	Ext   string
}

func (m *RedDotInfo) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.ID)
	w.Int32(2, m.Value)
	w.Int64(3, m.Time)
	w.String(4, m.Ext)
}

type RedDotGroup struct {
	DefineID   int32
	Infos      []*RedDotInfo
	ReplaceAll bool
}

func (m *RedDotGroup) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.DefineID)
	for _, info := range m.Infos {
		w.Message(2, info)
	}
	w.Bool(3, m.ReplaceAll)
}

func (m *RedDotGroup) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.DefineID = r.Int32()
		case 3:
			m.ReplaceAll = r.Bool()
		default:
			r.Skip()
		}
	})
}
