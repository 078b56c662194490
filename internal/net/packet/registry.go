package packet

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/sonettogo/server/internal/apperr"
	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateConnected     SessionState = iota // socket open, awaiting login
	StateAuthenticated                     // player bound
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "Connected"
	case StateAuthenticated:
		return "Authenticated"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Packet is one decoded client frame.
type Packet struct {
	Cmd   CmdID
	UpTag uint8
	Body  []byte
}

// HandlerFunc is the callback signature for command handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(ctx context.Context, sess any, pkt *Packet) error

// Handle adapts a typed handler: the body is decoded into a fresh T before fn
// runs, and a decode failure becomes a codec error without invoking fn.
func Handle[T any, PT interface {
	*T
	Unmarshaler
}](fn func(ctx context.Context, sess any, pkt *Packet, req PT) error) HandlerFunc {
	return func(ctx context.Context, sess any, pkt *Packet) error {
		req := PT(new(T))
		if err := Unmarshal(pkt.Body, req); err != nil {
			return apperr.Codec(err)
		}
		return fn(ctx, sess, pkt, req)
	}
}

// PanicError is a recovered handler panic. It always closes the session.
type PanicError struct {
	Cmd   CmdID
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic for %s: %v", e.Cmd, e.Value)
}

func (e *PanicError) Fatal() bool { return true }

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrStateNotAllowed = errors.New("command not allowed in session state")
)

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps command ids to handlers with state-based access control.
type Registry struct {
	handlers map[CmdID]*handlerEntry
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[CmdID]*handlerEntry),
		log:      log,
	}
}

// Register maps a command to a handler, restricted to the given session states.
func (reg *Registry) Register(cmd CmdID, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[cmd] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// Registered reports whether cmd has a handler.
func (reg *Registry) Registered(cmd CmdID) bool {
	_, ok := reg.handlers[cmd]
	return ok
}

// Dispatch finds the handler for pkt.Cmd, validates the session state, and
// calls the handler exactly once. A gameplay command arriving before login
// fails with NotLoggedIn.
func (reg *Registry) Dispatch(ctx context.Context, sess any, state SessionState, pkt *Packet) error {
	reg.log.Debug("packet received",
		zap.Stringer("cmd", pkt.Cmd),
		zap.Int("size", len(pkt.Body)),
		zap.Stringer("state", state),
	)

	entry, ok := reg.handlers[pkt.Cmd]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, pkt.Cmd)
	}

	if !entry.allowedStates[state] {
		if state == StateConnected && entry.allowedStates[StateAuthenticated] {
			return apperr.ErrNotLoggedIn
		}
		return fmt.Errorf("%w: %s in %s", ErrStateNotAllowed, pkt.Cmd, state)
	}

	return reg.safeCall(ctx, entry.fn, sess, pkt)
}

// safeCall executes a handler with panic recovery so a single bad packet
// cannot take the server down.
func (reg *Registry) safeCall(ctx context.Context, fn HandlerFunc, sess any, pkt *Packet) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Stringer("cmd", pkt.Cmd),
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()),
			)
			err = &PanicError{Cmd: pkt.Cmd, Value: rec}
		}
	}()
	return fn(ctx, sess, pkt)
}
