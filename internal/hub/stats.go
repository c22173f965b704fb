// Package hub, stats aggregation.
//
// Stats are derived entirely from the in-memory record caches and the call
// counter table, so building a snapshot never touches the store. They are
// pushed reactively: whenever a relayed event changes an identity's counters
// (message involving them, shared journal or moment add, call accept), the
// affected online identities receive stats:update.
package hub

import "time"

// BuildStats computes the activity snapshot for one identity: messages they
// sent or received, the shared journal and moment totals, their accepted-call
// count, and the latest activity timestamp across their messages and all
// journal entries and moments (nil when nothing exists yet).
func (h *Hub) BuildStats(identity string) Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buildStatsLocked(identity)
}

func (h *Hub) buildStatsLocked(identity string) Stats {
	s := Stats{
		JournalCount: int64(len(h.journal)),
		MomentCount:  int64(len(h.moments)),
		CallCount:    h.callCounts[identity],
	}

	var last time.Time
	for _, m := range h.messages {
		if m.From != identity && m.To != identity {
			continue
		}
		s.MessageCount++
		if m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
	}
	for _, e := range h.journal {
		if e.CreatedAt.After(last) {
			last = e.CreatedAt
		}
	}
	for _, m := range h.moments {
		if m.CreatedAt.After(last) {
			last = m.CreatedAt
		}
	}
	if !last.IsZero() {
		s.LastActivity = &last
	}
	return s
}

// pushStatsLocked sends a fresh stats:update to each named identity that is
// currently online. Callers hold h.mu. Duplicates in the argument list are
// fine; each push is cheap and idempotent from the client's perspective.
func (h *Hub) pushStatsLocked(identities ...string) {
	for _, identity := range identities {
		if dst, ok := h.reg.Resolve(identity); ok {
			dst.Send(EvStatsUpdate, h.buildStatsLocked(identity))
			relayed(EvStatsUpdate)
		}
	}
}
