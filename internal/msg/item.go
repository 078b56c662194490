package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type GetItemListReply struct {
	Items        []*Item
	PowerItems   []*PowerItem
	InsightItems []*InsightItem
}

func (m *GetItemListReply) MarshalWire(w *packet.Writer) {
	for _, it := range m.Items {
		w.Message(1, it)
	}
	for _, it := range m.PowerItems {
		w.Message(2, it)
	}
	for _, it := range m.InsightItems {
		w.Message(3, it)
	}
}

func (m *GetItemListReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			it := &Item{}
			r.Message(it)
			m.Items = append(m.Items, it)
		case 2:
			it := &PowerItem{}
			r.Message(it)
			m.PowerItems = append(m.PowerItems, it)
		case 3:
			it := &InsightItem{}
			r.Message(it)
			m.InsightItems = append(m.InsightItems, it)
		default:
			r.Skip()
		}
	})
}

// ItemChangePush reports the current rows of every changed item. It shares
// the GetItemListReply layout.
type ItemChangePush = GetItemListReply

type CurrencyChangePush struct {
	ChangeCurrency []*Currency
}

func (m *CurrencyChangePush) MarshalWire(w *packet.Writer) {
	for _, c := range m.ChangeCurrency {
		w.Message(1, c)
	}
}

func (m *CurrencyChangePush) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num != 1 {
			r.Skip()
			return
		}
		c := &Currency{}
		r.Message(c)
		m.ChangeCurrency = append(m.ChangeCurrency, c)
	})
}

type MaterialChangePush struct {
	DataList    []*MaterialData
	GetApproach int32
}

func (m *MaterialChangePush) MarshalWire(w *packet.Writer) {
	for _, d := range m.DataList {
		w.Message(1, d)
	}
	w.Int32(2, m.GetApproach)
}

func (m *MaterialChangePush) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			d := &MaterialData{}
			r.Message(d)
			m.DataList = append(m.DataList, d)
		case 2:
			m.GetApproach = r.Int32()
		default:
			r.Skip()
		}
	})
}

type UpdateRedDotPush struct {
	RedDotInfos []*RedDotGroup
	ReplaceAll  bool
}

func (m *UpdateRedDotPush) MarshalWire(w *packet.Writer) {
	for _, g := range m.RedDotInfos {
		w.Message(1, g)
	}
	w.Bool(2, m.ReplaceAll)
}

func (m *UpdateRedDotPush) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			g := &RedDotGroup{}
			r.Message(g)
			m.RedDotInfos = append(m.RedDotInfos, g)
		case 2:
			m.ReplaceAll = r.Bool()
		default:
			r.Skip()
		}
	})
}

type UseInsightItemRequest struct {
	UID    int64
	HeroID int32
}

func (m *UseInsightItemRequest) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.UID)
	w.Int32(2, m.HeroID)
}

func (m *UseInsightItemRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.UID = r.Int64()
		case 2:
			m.HeroID = r.Int32()
		default:
			r.Skip()
		}
	})
}

type UseInsightItemReply struct {
	HeroID int32
	UID    int64
}

func (m *UseInsightItemReply) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.HeroID)
	w.Int64(2, m.UID)
}

func (m *UseInsightItemReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.HeroID = r.Int32()
		case 2:
			m.UID = r.Int64()
		default:
			r.Skip()
		}
	})
}

type UseItemRequest struct {
	MaterialID int32
	Quantity   int32
	TargetID   int64
	HasTarget  bool
}

func (m *UseItemRequest) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.MaterialID)
	w.Int32(2, m.Quantity)
	if m.HasTarget {
		w.Int64(3, m.TargetID)
	}
}

func (m *UseItemRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.MaterialID = r.Int32()
		case 2:
			m.Quantity = r.Int32()
		case 3:
			m.TargetID = r.Int64()
			m.HasTarget = true
		default:
			r.Skip()
		}
	})
}

type UseItemReply struct {
	MaterialID int32
	Quantity   int32
	Gains      []*MaterialData
}

func (m *UseItemReply) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.MaterialID)
	w.Int32(2, m.Quantity)
	for _, g := range m.Gains {
		w.Message(3, g)
	}
}

func (m *UseItemReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.MaterialID = r.Int32()
		case 2:
			m.Quantity = r.Int32()
		case 3:
			g := &MaterialData{}
			r.Message(g)
			m.Gains = append(m.Gains, g)
		default:
			r.Skip()
		}
	})
}

type EquipLockRequest struct {
	TargetUID int64
	Lock      bool
}

func (m *EquipLockRequest) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.TargetUID)
	w.Bool(2, m.Lock)
}

func (m *EquipLockRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.TargetUID = r.Int64()
		case 2:
			m.Lock = r.Bool()
		default:
			r.Skip()
		}
	})
}

type EquipLockReply = EquipLockRequest

type EquipList struct {
	Equips []*Equip
}

func (m *EquipList) MarshalWire(w *packet.Writer) {
	for _, e := range m.Equips {
		w.Message(1, e)
	}
}

func (m *EquipList) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num != 1 {
			r.Skip()
			return
		}
		e := &Equip{}
		r.Message(e)
		m.Equips = append(m.Equips, e)
	})
}

type (
	GetEquipInfoReply = EquipList
	EquipUpdatePush   = EquipList
)
