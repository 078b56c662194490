package net

import (
	"bytes"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/component"
	"github.com/sonettogo/server/internal/net/packet"
	"go.uber.org/zap"
)

type rawBody []byte

func (b rawBody) MarshalWire(w *packet.Writer) { w.Bytes(1, b) }

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(EncodeRequest(packet.CmdHeroRankUp, 9, []byte{1, 2, 3}))
	pkt, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if pkt.Cmd != packet.CmdHeroRankUp || pkt.UpTag != 9 || !bytes.Equal(pkt.Body, []byte{1, 2, 3}) {
		t.Fatalf("packet = %+v", pkt)
	}

	buf.Write(EncodeFrame(packet.CmdHeroRankUp, apperr.StatusInvalidRequest, 9, nil))
	f, err := ReadServerFrame(&buf)
	if err != nil {
		t.Fatalf("read server frame: %v", err)
	}
	if f.Status != apperr.StatusInvalidRequest || f.UpTag != 9 || len(f.Body) != 0 {
		t.Fatalf("frame = %+v", f)
	}
}

func TestReadFrameRejectsBadLength(t *testing.T) {
	for _, n := range []uint32{0, 2, MaxFrameSize + 1} {
		hdr := []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
		if _, err := ReadFrame(bytes.NewReader(hdr)); err == nil {
			t.Errorf("length %d accepted", n)
		}
	}
}

type dispatchFunc func(ctx context.Context, s *Session, pkt *packet.Packet)

func (f dispatchFunc) Dispatch(ctx context.Context, s *Session, pkt *packet.Packet) { f(ctx, s, pkt) }

func testConfig() SessionConfig {
	return SessionConfig{InQueueSize: 8, OutQueueSize: 16, WriteTimeout: time.Second}
}

func startPipeSession(t *testing.T, d Dispatcher) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	s := NewSession(server, 1, testConfig(), zap.NewNop())
	s.Start(d)
	t.Cleanup(func() {
		s.Close()
		client.Close()
	})
	return s, client
}

func readFrame(t *testing.T, c net.Conn) *Frame {
	t.Helper()
	c.SetReadDeadline(time.Now().Add(2 * time.Second))
	f, err := ReadServerFrame(c)
	if err != nil {
		t.Fatalf("read server frame: %v", err)
	}
	return f
}

func TestPushesPrecedeReplyInCallOrder(t *testing.T) {
	_, client := startPipeSession(t, dispatchFunc(func(_ context.Context, s *Session, pkt *packet.Packet) {
		s.Push(packet.CmdItemChangePush, rawBody("a"))
		s.Push(packet.CmdCurrencyChangePush, rawBody("b"))
		s.Reply(pkt.Cmd, rawBody("c"), 0, pkt.UpTag)
	}))

	if _, err := client.Write(EncodeRequest(packet.CmdHeroRankUp, 4, nil)); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := []packet.CmdID{packet.CmdItemChangePush, packet.CmdCurrencyChangePush, packet.CmdHeroRankUp}
	for i, cmd := range want {
		f := readFrame(t, client)
		if f.Cmd != cmd {
			t.Fatalf("frame %d = %s, want %s", i, f.Cmd, cmd)
		}
		if cmd == packet.CmdHeroRankUp && f.UpTag != 4 {
			t.Fatalf("reply up_tag = %d", f.UpTag)
		}
		if cmd != packet.CmdHeroRankUp && f.UpTag != 0 {
			t.Fatalf("push up_tag = %d", f.UpTag)
		}
	}
}

func TestCommandsRunSequentially(t *testing.T) {
	running := make(chan struct{}, 2)
	release := make(chan struct{})
	_, client := startPipeSession(t, dispatchFunc(func(_ context.Context, s *Session, pkt *packet.Packet) {
		running <- struct{}{}
		if pkt.UpTag == 1 {
			<-release
		}
		s.Reply(pkt.Cmd, nil, 0, pkt.UpTag)
	}))

	client.Write(EncodeRequest(packet.CmdHeartbeat, 1, nil))
	client.Write(EncodeRequest(packet.CmdHeartbeat, 2, nil))
	<-running
	select {
	case <-running:
		t.Fatal("second command started while the first was still running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	if f := readFrame(t, client); f.UpTag != 1 {
		t.Fatalf("first reply tag = %d", f.UpTag)
	}
	if f := readFrame(t, client); f.UpTag != 2 {
		t.Fatalf("second reply tag = %d", f.UpTag)
	}
}

func TestSendAfterCloseIsFatal(t *testing.T) {
	s, _ := startPipeSession(t, dispatchFunc(func(context.Context, *Session, *packet.Packet) {}))
	s.Close()
	err := s.Push(packet.CmdChatMsgPush, nil)
	if !errors.Is(err, ErrSessionClosed) || !apperr.Fatal(err) {
		t.Fatalf("err = %v", err)
	}
	select {
	case <-s.Context().Done():
	default:
		t.Fatal("session context not cancelled on close")
	}
}

func TestOnCloseHooks(t *testing.T) {
	s, _ := startPipeSession(t, dispatchFunc(func(context.Context, *Session, *packet.Packet) {}))
	var before, after int
	s.OnClose(func(*Session) { before++ })
	s.Close()
	s.Close()
	if before != 1 {
		t.Fatalf("hook registered before close ran %d times", before)
	}

	// A login that finishes after the peer hung up still gets its logout.
	s.OnClose(func(*Session) { after++ })
	if after != 1 {
		t.Fatalf("hook registered after close ran %d times", after)
	}
}

func TestFullOutQueueClosesSession(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	cfg := testConfig()
	cfg.OutQueueSize = 1
	s := NewSession(server, 1, cfg, zap.NewNop())
	// No writer goroutine: the queue never drains.
	if err := s.Push(packet.CmdChatMsgPush, nil); err != nil {
		t.Fatalf("first push: %v", err)
	}
	if err := s.Push(packet.CmdChatMsgPush, nil); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("second push err = %v", err)
	}
	if !s.IsClosed() {
		t.Fatal("session should close on backpressure")
	}
}

func TestUpdateAndSavePlayerState(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()
	s := NewSession(server, 1, testConfig(), zap.NewNop())
	defer s.Close()

	if err := s.UpdateAndSavePlayerState(context.Background(), func(*component.PlayerState) {}); !errors.Is(err, apperr.ErrNotLoggedIn) {
		t.Fatalf("pre-login err = %v", err)
	}
	if _, err := s.PlayerID(); !errors.Is(err, apperr.ErrNotLoggedIn) {
		t.Fatalf("PlayerID err = %v", err)
	}

	var saved []component.PlayerState
	s.Bind(component.Account{PlayerID: 42, Name: "vertin"}, &component.PlayerState{PlayerID: 42},
		func(_ context.Context, st component.PlayerState) error {
			saved = append(saved, st)
			return nil
		})
	if s.State() != packet.StateAuthenticated {
		t.Fatalf("state = %s", s.State())
	}
	err := s.UpdateAndSavePlayerState(context.Background(), func(st *component.PlayerState) {
		st.ClaimMonthCard(1000)
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(saved) != 1 || saved[0].MonthCardClaimedAt != 1000 {
		t.Fatalf("saved = %+v", saved)
	}
}

func TestRouterRepliesWithErrorStatus(t *testing.T) {
	reg := packet.NewRegistry(zap.NewNop())
	reg.Register(packet.CmdHeroRankUp, []packet.SessionState{packet.StateAuthenticated},
		func(context.Context, any, *packet.Packet) error { return apperr.Invalid("no hero") })
	reg.Register(packet.CmdHeartbeat, []packet.SessionState{packet.StateConnected},
		func(context.Context, any, *packet.Packet) error { panic("bad") })
	s, client := startPipeSession(t, NewRouter(reg, zap.NewNop()))

	// Not logged in yet.
	client.Write(EncodeRequest(packet.CmdHeroRankUp, 3, nil))
	if f := readFrame(t, client); f.Status != apperr.StatusNotLoggedIn || f.UpTag != 3 {
		t.Fatalf("frame = %+v", f)
	}

	s.Bind(component.Account{PlayerID: 1}, &component.PlayerState{}, nil)
	client.Write(EncodeRequest(packet.CmdHeroRankUp, 5, nil))
	if f := readFrame(t, client); f.Status != apperr.StatusInvalidRequest || f.UpTag != 5 {
		t.Fatalf("frame = %+v", f)
	}

	client.Write(EncodeRequest(packet.CmdID(7777), 6, nil))
	if f := readFrame(t, client); f.Status != apperr.StatusInvalidRequest {
		t.Fatalf("unknown command frame = %+v", f)
	}
}

func TestRouterClosesOnPanic(t *testing.T) {
	reg := packet.NewRegistry(zap.NewNop())
	reg.Register(packet.CmdHeartbeat, []packet.SessionState{packet.StateConnected},
		func(context.Context, any, *packet.Packet) error { panic("bad") })
	s, client := startPipeSession(t, NewRouter(reg, zap.NewNop()))

	client.Write(EncodeRequest(packet.CmdHeartbeat, 1, nil))
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session not closed after panic")
	}
}

func TestSessionStore(t *testing.T) {
	st := NewSessionStore()
	server, client := net.Pipe()
	defer client.Close()
	s := NewSession(server, 11, testConfig(), zap.NewNop())
	st.Add(s)
	s.Bind(component.Account{PlayerID: 99}, &component.PlayerState{}, nil)
	if st.ByPlayer(99) != s || st.Get(11) != s || st.Count() != 1 {
		t.Fatal("lookup failed")
	}
	s.OnClose(func(s *Session) { st.Remove(s.ID) })
	st.CloseAll()
	if st.Count() != 0 {
		t.Fatalf("count after close = %d", st.Count())
	}
}
