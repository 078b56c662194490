package net

import (
	"context"
	"errors"

	"github.com/sonettogo/server/internal/apperr"
	"github.com/sonettogo/server/internal/net/packet"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/sonettogo/server/internal/net"

// Router is the session Dispatcher. It runs the registry inside a span and
// turns handler errors into error replies, or closes the session when the
// error is fatal.
type Router struct {
	reg    *packet.Registry
	tracer trace.Tracer
	log    *zap.Logger
}

func NewRouter(reg *packet.Registry, log *zap.Logger) *Router {
	return &Router{
		reg:    reg,
		tracer: otel.Tracer(tracerName),
		log:    log,
	}
}

func (rt *Router) Dispatch(ctx context.Context, s *Session, pkt *packet.Packet) {
	ctx, span := rt.tracer.Start(ctx, pkt.Cmd.String(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int("cmd.id", int(pkt.Cmd)),
			attribute.Int64("session", int64(s.ID)),
		),
	)
	defer span.End()
	if pid, err := s.PlayerID(); err == nil {
		span.SetAttributes(attribute.Int64("player", pid))
	}

	err := rt.reg.Dispatch(ctx, s, s.State(), pkt)
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	log := s.Log().With(zap.Stringer("cmd", pkt.Cmd))
	switch {
	case apperr.Fatal(err):
		log.Error("fatal handler error, closing session", zap.Error(err))
		s.Close()
		return
	case errors.Is(err, context.Canceled) && s.IsClosed():
		log.Debug("handler cancelled by disconnect")
		return
	case errors.Is(err, packet.ErrUnknownCommand), errors.Is(err, packet.ErrStateNotAllowed):
		log.Debug("command rejected", zap.Error(err))
		err = apperr.ErrInvalidRequest
	case apperr.KindOf(err) == apperr.KindStorage || apperr.KindOf(err) == apperr.KindUnknown:
		log.Error("handler failed", zap.Error(err))
	default:
		log.Warn("handler failed", zap.Error(err))
	}

	if rerr := s.EmptyReply(pkt.Cmd, nil, apperr.StatusOf(err), pkt.UpTag); rerr != nil {
		s.Close()
	}
}
