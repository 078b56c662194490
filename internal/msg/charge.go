package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type ChargeInfo struct {
	ID          int32
	BuyCount    int32
	FirstCharge bool
}

func (m *ChargeInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.ID)
	w.Int32(2, m.BuyCount)
	w.Bool(3, m.FirstCharge)
}

func (m *ChargeInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.ID = r.Int32()
		case 2:
			m.BuyCount = r.Int32()
		case 3:
			m.FirstCharge = r.Bool()
		default:
			r.Skip()
		}
	})
}

type GetChargeInfoReply struct {
	Infos          []*ChargeInfo
	SandboxEnable  bool
	SandboxBalance int32
}

func (m *GetChargeInfoReply) MarshalWire(w *packet.Writer) {
	for _, info := range m.Infos {
		w.Message(1, info)
	}
	w.Bool(2, m.SandboxEnable)
	w.Int32(3, m.SandboxBalance)
}

func (m *GetChargeInfoReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			info := &ChargeInfo{}
			r.Message(info)
			m.Infos = append(m.Infos, info)
		case 2:
			m.SandboxEnable = r.Bool()
		case 3:
			m.SandboxBalance = r.Int32()
		default:
			r.Skip()
		}
	})
}

type MonthCardInfo struct {
	ID          int32
	ExpireTime  int32
	HasGetBonus bool
}

func (m *MonthCardInfo) MarshalWire(w *packet.Writer) {
	w.Int32(1, m.ID)
	w.Int32(2, m.ExpireTime)
	w.Bool(3, m.HasGetBonus)
}

func (m *MonthCardInfo) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.ID = r.Int32()
		case 2:
			m.ExpireTime = r.Int32()
		case 3:
			m.HasGetBonus = r.Bool()
		default:
			r.Skip()
		}
	})
}

type GetMonthCardInfoReply struct {
	Infos []*MonthCardInfo
}

func (m *GetMonthCardInfoReply) MarshalWire(w *packet.Writer) {
	for _, info := range m.Infos {
		w.Message(1, info)
	}
}

func (m *GetMonthCardInfoReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num != 1 {
			r.Skip()
			return
		}
		info := &MonthCardInfo{}
		r.Message(info)
		m.Infos = append(m.Infos, info)
	})
}

type ReadChargeNewRequest struct {
	GoodsIDs []int32
}

func (m *ReadChargeNewRequest) MarshalWire(w *packet.Writer) {
	w.PackedInt32s(1, m.GoodsIDs)
}

func (m *ReadChargeNewRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num != 1 {
			r.Skip()
			return
		}
		m.GoodsIDs = r.AppendInt32s(m.GoodsIDs)
	})
}

type ReadChargeNewReply = ReadChargeNewRequest
