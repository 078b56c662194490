package net

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/component"
	"github.com/sonettogo/server/internal/net/packet"
	"go.uber.org/zap"
)

type sessionClosedError struct{}

func (sessionClosedError) Error() string { return "session closed" }
func (sessionClosedError) Fatal() bool   { return true }

// ErrSessionClosed is returned by every send on a closed session.
var ErrSessionClosed error = sessionClosedError{}

// Dispatcher runs one decoded packet for a session.
type Dispatcher interface {
	Dispatch(ctx context.Context, s *Session, pkt *packet.Packet)
}

// SaveFunc persists a player state snapshot.
type SaveFunc func(ctx context.Context, st component.PlayerState) error

// SessionConfig carries the per-connection limits.
type SessionConfig struct {
	InQueueSize      int
	OutQueueSize     int
	PacketsPerSecond int // 0 = unlimited
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
}

// Session represents a single client connection. The read, dispatch and
// write sides run in dedicated goroutines; commands on one session are
// handled strictly in arrival order by the dispatch goroutine.
type Session struct {
	ID     uint64
	ConnID string
	IP     string
	conn   net.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan *packet.Packet // dispatch goroutine reads from here
	OutQueue chan []byte         // writer goroutine reads from here

	// sendMu makes enqueue order equal call order across goroutines.
	sendMu sync.Mutex

	mu           sync.Mutex // guards the fields below
	account      component.Account
	player       *component.PlayerState
	save         SaveFunc
	activeBattle string
	onClose      []func(*Session)
	hooksRan     bool // onClose drained; later hooks run at once

	ctx       context.Context
	cancel    context.CancelFunc
	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	// Per-second packet rate limiter (readLoop goroutine only, no lock needed)
	pktPerSec  int
	pktCount   int
	pktResetAt int64

	readTimeout  time.Duration
	writeTimeout time.Duration

	log *zap.Logger
}

func NewSession(conn net.Conn, id uint64, cfg SessionConfig, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	connID := uuid.NewString()
	s := &Session{
		ID:           id,
		ConnID:       connID,
		IP:           conn.RemoteAddr().String(),
		conn:         conn,
		InQueue:      make(chan *packet.Packet, cfg.InQueueSize),
		OutQueue:     make(chan []byte, cfg.OutQueueSize),
		ctx:          ctx,
		cancel:       cancel,
		closeCh:      make(chan struct{}),
		pktPerSec:    cfg.PacketsPerSecond,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		log:          log.With(zap.Uint64("session", id), zap.String("conn", connID)),
	}
	s.state.Store(int32(packet.StateConnected))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) Log() *zap.Logger { return s.log }

// Start launches the reader, dispatcher and writer goroutines.
func (s *Session) Start(d Dispatcher) {
	go s.readLoop()
	go s.dispatchLoop(d)
	go s.writeLoop()
}

// Bind attaches an authenticated player to the session.
func (s *Session) Bind(acct component.Account, st *component.PlayerState, save SaveFunc) {
	s.mu.Lock()
	s.account = acct
	s.player = st
	s.save = save
	s.mu.Unlock()
	s.SetState(packet.StateAuthenticated)
}

// PlayerID returns the bound player id, or NotLoggedIn before login.
func (s *Session) PlayerID() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account.PlayerID == 0 {
		return 0, apperr.ErrNotLoggedIn
	}
	return s.account.PlayerID, nil
}

func (s *Session) Account() component.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// PlayerState returns a copy of the projection. ok is false before login.
func (s *Session) PlayerState() (component.PlayerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return component.PlayerState{}, false
	}
	return s.player.Snapshot(), true
}

// UpdateAndSavePlayerState applies fn to the projection and flushes the
// result through the bound SaveFunc before returning.
func (s *Session) UpdateAndSavePlayerState(ctx context.Context, fn func(*component.PlayerState)) error {
	s.mu.Lock()
	if s.player == nil {
		s.mu.Unlock()
		return apperr.ErrNotLoggedIn
	}
	fn(s.player)
	snap := s.player.Snapshot()
	save := s.save
	s.mu.Unlock()
	if save == nil {
		return nil
	}
	return save(ctx, snap)
}

func (s *Session) SetActiveBattle(token string) {
	s.mu.Lock()
	s.activeBattle = token
	s.mu.Unlock()
}

func (s *Session) ActiveBattle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeBattle
}

// OnClose registers fn to run once when the session closes. On a session
// that has already closed, fn runs before OnClose returns.
func (s *Session) OnClose(fn func(*Session)) {
	s.mu.Lock()
	if s.hooksRan {
		s.mu.Unlock()
		fn(s)
		return
	}
	s.onClose = append(s.onClose, fn)
	s.mu.Unlock()
}

// Reply sends a typed response correlated to a request by upTag.
func (s *Session) Reply(cmd packet.CmdID, body packet.Marshaler, status uint16, upTag uint8) error {
	return s.Send(EncodeFrame(cmd, status, upTag, packet.Marshal(body)))
}

// Push sends an unsolicited message.
func (s *Session) Push(cmd packet.CmdID, body packet.Marshaler) error {
	return s.Send(EncodeFrame(cmd, 0, 0, packet.Marshal(body)))
}

// EmptyReply replies with an already-encoded body.
func (s *Session) EmptyReply(cmd packet.CmdID, payload []byte, status uint16, upTag uint8) error {
	return s.Send(EncodeFrame(cmd, status, upTag, payload))
}

// Send enqueues one encoded frame for the writer goroutine.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) Send(frame []byte) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}
	select {
	case s.OutQueue <- frame:
		return nil
	default:
		s.log.Warn("output queue full, dropping slow connection")
		s.Close()
		return ErrSessionClosed
	}
}

// Close gracefully shuts down the session.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		s.cancel()
		close(s.closeCh)
		s.conn.Close()

		s.mu.Lock()
		hooks := s.onClose
		s.onClose = nil
		s.hooksRan = true
		s.mu.Unlock()
		for _, fn := range hooks {
			fn(s)
		}
	})
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed when the session closes.
func (s *Session) Done() <-chan struct{} { return s.closeCh }

// readLoop reads frames from the connection and pushes them onto InQueue.
func (s *Session) readLoop() {
	defer s.Close()

	for {
		if s.readTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		pkt, err := ReadFrame(s.conn)
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("read error", zap.Error(err))
			}
			return
		}

		if s.pktPerSec > 0 {
			now := time.Now().Unix()
			if now != s.pktResetAt {
				s.pktCount = 0
				s.pktResetAt = now
			}
			s.pktCount++
			if s.pktCount > s.pktPerSec {
				s.log.Warn("packet rate exceeded, disconnecting", zap.Int("pps", s.pktCount))
				return
			}
		}

		// Block until InQueue has space or the session closes. Dropping a
		// request would lose its reply.
		select {
		case s.InQueue <- pkt:
		case <-s.closeCh:
			return
		}
	}
}

// dispatchLoop runs one command at a time, in arrival order.
func (s *Session) dispatchLoop(d Dispatcher) {
	for {
		select {
		case pkt := <-s.InQueue:
			d.Dispatch(s.ctx, s, pkt)
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop drains OutQueue to the connection.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		select {
		case frame := <-s.OutQueue:
			if !s.writeOne(frame) {
				return
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Session) writeOne(frame []byte) bool {
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := s.conn.Write(frame); err != nil {
		if !s.closed.Load() {
			s.log.Debug("write error", zap.Error(err))
		}
		return false
	}
	return true
}
