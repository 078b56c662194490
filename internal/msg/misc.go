package msg

import (
	"github.com/sonettogo/server/internal/net/packet"
	"google.golang.org/protobuf/encoding/protowire"
)

type LoginRequest struct {
	Account  string
	Password string
	Token    string
}

func (m *LoginRequest) MarshalWire(w *packet.Writer) {
	w.String(1, m.Account)
	w.String(2, m.Password)
	if m.Token != "" {
		w.String(3, m.Token)
	}
}

func (m *LoginRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.Account = r.Str()
		case 2:
			m.Password = r.Str()
		case 3:
			m.Token = r.Str()
		default:
			r.Skip()
		}
	})
}

type LoginReply struct {
	PlayerID   int64
	ServerTime int64
	IsNew      bool
}

func (m *LoginReply) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.PlayerID)
	w.Int64(2, m.ServerTime)
	w.Bool(3, m.IsNew)
}

func (m *LoginReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		switch num {
		case 1:
			m.PlayerID = r.Int64()
		case 2:
			m.ServerTime = r.Int64()
		case 3:
			m.IsNew = r.Bool()
		default:
			r.Skip()
		}
	})
}

type HeartbeatReply struct {
	ServerTime int64
}

func (m *HeartbeatReply) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.ServerTime)
}

func (m *HeartbeatReply) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num == 1 {
			m.ServerTime = r.Int64()
			return
		}
		r.Skip()
	})
}

type EndFightRequest struct {
	IsAbort *bool
}

func (m *EndFightRequest) MarshalWire(w *packet.Writer) {
	if m.IsAbort != nil {
		w.Bool(1, *m.IsAbort)
	}
}

func (m *EndFightRequest) UnmarshalWire(r *packet.Reader) error {
	return r.Fields(func(num protowire.Number) {
		if num == 1 {
			v := r.Bool()
			m.IsAbort = &v
			return
		}
		r.Skip()
	})
}

type ChatMsg struct {
	MsgID      int64
	SendUserID int64
	Content    string
	SendTime   int64
}

func (m *ChatMsg) MarshalWire(w *packet.Writer) {
	w.Int64(1, m.MsgID)
	w.Int64(2, m.SendUserID)
	w.String(3, m.Content)
	w.Int64(4, m.SendTime)
}

type ChatMsgPush struct {
	Msg []*ChatMsg
}

func (m *ChatMsgPush) MarshalWire(w *packet.Writer) {
	for _, c := range m.Msg {
		w.Message(1, c)
	}
}
