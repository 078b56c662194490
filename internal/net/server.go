package net

import (
	"context"
	"errors"
	"net"
	"sync/atomic"

	"go.uber.org/zap"
)

// Server accepts TCP connections and starts a Session per connection.
type Server struct {
	listener net.Listener
	nextID   atomic.Uint64
	sessions *SessionStore
	cfg      SessionConfig
	router   Dispatcher
	log      *zap.Logger
	closed   atomic.Bool

	// OnSession runs for every accepted session before it starts reading.
	OnSession func(*Session)
}

func NewServer(bindAddr string, cfg SessionConfig, router Dispatcher, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	return NewServerWithListener(ln, cfg, router, log), nil
}

func NewServerWithListener(ln net.Listener, cfg SessionConfig, router Dispatcher, log *zap.Logger) *Server {
	return &Server{
		listener: ln,
		sessions: NewSessionStore(),
		cfg:      cfg,
		router:   router,
		log:      log,
	}
}

// Serve runs the accept loop until ctx is cancelled or Shutdown is called.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Error("accept failed", zap.Error(err))
			continue
		}
		s.ServeConn(conn)
	}
}

// ServeConn starts a session on an already-accepted connection.
func (s *Server) ServeConn(conn net.Conn) *Session {
	id := s.nextID.Add(1)
	sess := NewSession(conn, id, s.cfg, s.log)
	s.sessions.Add(sess)
	sess.OnClose(func(sess *Session) {
		s.sessions.Remove(sess.ID)
		sess.Log().Info("player disconnected")
	})
	if s.OnSession != nil {
		s.OnSession(sess)
	}
	sess.Log().Info("player connected", zap.String("ip", sess.IP))
	sess.Start(s.router)
	return sess
}

func (s *Server) Sessions() *SessionStore { return s.sessions }

// Shutdown stops accepting new connections and closes every live session.
func (s *Server) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.listener.Close()
	s.sessions.CloseAll()
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
