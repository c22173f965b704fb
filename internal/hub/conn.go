// Package hub implements the connection-identity registry and event relay
// engine that connects the two correspondents: presence tracking, message and
// record relay with persistence, call signaling, and live activity stats.
//
// The hub is transport-agnostic. A connection is anything that satisfies Conn;
// the WebSocket layer supplies the production implementation and tests supply
// fakes. All delivery is fire-and-forget: the hub never blocks on a slow or
// offline recipient.
package hub

import (
	"encoding/json"
	"time"
)

// Conn is a borrowed handle to one client's live bidirectional channel. The
// transport layer owns the handle; the hub only sends through it. Send must
// never block: implementations buffer and drop rather than stall the relay.
//
// Implementations must be comparable (pointer types are) so the registry can
// use conns as reverse-index keys.
type Conn interface {
	Send(event string, data any)
}

// Outbound event names (server → connection).
const (
	EvUserList    = "user:list"
	EvUserOnline  = "user:online"
	EvUserOffline = "user:offline"

	EvMessagesSync = "messages:sync"
	EvJournalSync  = "journal:sync"
	EvMomentsSync  = "moments:sync"
	EvMoodSync     = "mood:sync"
	EvQuizSync     = "quiz:sync"
	EvStatsSync    = "stats:sync"
	EvStatsUpdate  = "stats:update"

	EvMessageReceive = "message:receive"
	EvJournalNew     = "journal:new"
	EvMomentsNew     = "moments:new"
	EvMoodNew        = "mood:new"
	EvQuizResult     = "quiz:result"
	EvTypingShow     = "typing:show"
	EvTypingHide     = "typing:hide"

	EvCallIncoming = "call:incoming"
	EvCallAccepted = "call:accepted"
	EvCallRejected = "call:rejected"
	EvCallEnded    = "call:ended"
	EvCallSignal   = "call:signal"
)

// QuizResult is the unicast reply to a quiz submission.
type QuizResult struct {
	Unlocked bool   `json:"unlocked"`
	Message  string `json:"message"`
}

// IncomingCall notifies the callee of a call attempt. Signal carries the
// opaque session-negotiation payload (SDP offer); the hub never inspects it.
type IncomingCall struct {
	From    string          `json:"from"`
	Signal  json.RawMessage `json:"signal"`
	IsVideo bool            `json:"isVideo"`
}

// AcceptedCall carries the answer payload back to the caller.
type AcceptedCall struct {
	Signal json.RawMessage `json:"signal"`
}

// CallSignal is one continuous-exchange signaling frame (ICE candidates and
// the like) relayed during an active call.
type CallSignal struct {
	From   string          `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

// Stats is the per-identity activity snapshot pushed on sync and whenever a
// relayed event affects the identity's counters. Journal and moment counts are
// shared totals, not per-identity. LastActivity is nil when no record exists.
type Stats struct {
	MessageCount int64      `json:"messageCount"`
	JournalCount int64      `json:"journalCount"`
	MomentCount  int64      `json:"momentCount"`
	CallCount    int64      `json:"callCount"`
	LastActivity *time.Time `json:"lastActivityTimestamp"`
}
