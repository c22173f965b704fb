// Package hub, call signaling.
//
// The server is a stateless signaling relay for the peer-to-peer call: the
// per-attempt state machine (idle → ringing → active → ended/rejected) lives
// in the two client endpoints, and every relay whose target is offline is
// silently dropped; a stale peer cannot consume a delayed signal anyway. The
// one piece of server state is the accepted-call counter table, incremented on
// accept and persisted as a whole snapshot.
package hub

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InitiateCall relays a ring to the callee, carrying the opaque offer payload.
// No server-side call state is created: an offline callee means the attempt
// simply never happened as far as the server is concerned.
func (h *Hub) InitiateCall(ctx context.Context, from, to string, signal json.RawMessage, isVideo bool) error {
	_, span := tracer().Start(ctx, "InitiateCall", trace.WithAttributes(
		attribute.String("from", from), attribute.String("to", to),
		attribute.Bool("video", isVideo)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return ErrMissingIdentity
	}
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	dst, ok := h.reg.Resolve(to)
	if !ok {
		dropped(EvCallIncoming)
		log.Debug().Str("from", from).Str("to", to).Msg("callee offline, ring dropped")
		return nil
	}
	dst.Send(EvCallIncoming, IncomingCall{From: from, Signal: signal, IsVideo: isVideo})
	relayed(EvCallIncoming)
	return nil
}

// AcceptCall relays the answer payload to the caller and increments the call
// counter for both parties: the accepting identity resolved through the
// sending connection's reverse binding, and the caller named by to. The
// counter snapshot is persisted and both parties get fresh stats.
func (h *Hub) AcceptCall(ctx context.Context, c Conn, to string, signal json.RawMessage) error {
	_, span := tracer().Start(ctx, "AcceptCall",
		trace.WithAttributes(attribute.String("to", to)))
	defer span.End()

	if c == nil {
		return ErrNilConn
	}
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(EvCallAccepted, AcceptedCall{Signal: signal})
		relayed(EvCallAccepted)
	} else {
		dropped(EvCallAccepted)
	}

	from, bound := h.reg.ReverseResolve(c)
	if bound {
		h.callCounts[from]++
	}
	h.callCounts[to]++
	callsAccepted.Inc()

	if err := h.store.SaveCallCounts(h.callCounts); err != nil {
		h.appendFailed("call_counts", err)
	}

	if bound {
		h.pushStatsLocked(from, to)
	} else {
		h.pushStatsLocked(to)
	}
	return nil
}

// RejectCall relays a rejection to the caller. No counter changes.
func (h *Hub) RejectCall(ctx context.Context, to string) error {
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(EvCallRejected, nil)
		relayed(EvCallRejected)
	} else {
		dropped(EvCallRejected)
	}
	return nil
}

// EndCall relays a hang-up to the peer. No counter changes.
func (h *Hub) EndCall(ctx context.Context, to string) error {
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(EvCallEnded, nil)
		relayed(EvCallEnded)
	} else {
		dropped(EvCallEnded)
	}
	return nil
}

// SignalCall relays one continuous-exchange frame (ICE candidates and the
// like) during an active call. The sender identity is resolved through the
// sending connection; a stale sender relays with an empty from, which the
// peer's client discards.
func (h *Hub) SignalCall(ctx context.Context, c Conn, to string, signal json.RawMessage) error {
	if c == nil {
		return ErrNilConn
	}
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	from, _ := h.reg.ReverseResolve(c)
	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(EvCallSignal, CallSignal{From: from, Signal: signal})
		relayed(EvCallSignal)
	} else {
		dropped(EvCallSignal)
	}
	return nil
}
