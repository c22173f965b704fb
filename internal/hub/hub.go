// Package hub, relay engine.
//
// This file implements the Hub, the event-processing core. Every inbound
// operation (attach with its sync handshake, relay, detach) runs under a
// single mutex, so no reader ever observes a partially updated binding set and
// no broadcast can interleave with a new connection's backlog delivery.
//
// Persistence ordering: a record is appended to the store before its broadcast
// is relayed. Append failures are logged and counted, and the in-memory append
// proceeds regardless, trading durability for availability.
//
// Observability: public operations are OpenTelemetry-instrumented; spans carry
// the identities involved.
package hub

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// Options configures hub behavior that is policy rather than mechanism.
type Options struct {
	// AnswerKey maps quiz question IDs to their correct answer IDs. Questions
	// absent from the map have no correct answer and always evaluate false.
	AnswerKey map[string]string

	// UnlockMessage is the phrase sent with a correct quiz answer. It is
	// title-cased before sending.
	UnlockMessage string

	// CallTeardownOnDisconnect broadcasts call:ended to the remaining
	// connections when a participant drops, instead of leaving the peer to
	// detect the dead call through its own transport.
	CallTeardownOnDisconnect bool
}

// Hub routes inbound application events to the correct online recipients,
// persisting first where the event kind calls for it. One Hub instance owns
// one registry and one set of in-memory record caches for the process
// lifetime; tests construct as many independent instances as they like.
type Hub struct {
	mu    sync.Mutex
	reg   *Registry
	store Store
	opts  Options

	// In-memory record caches, seeded from the store at construction and the
	// authoritative working set afterwards.
	messages   []domain.Message
	journal    []domain.JournalEntry
	moments    []domain.Moment
	moods      []domain.MoodStatus
	quiz       []domain.QuizAnswer
	callCounts map[string]int64

	titleCaser cases.Caser
}

// New constructs a Hub seeded from the store. A load failure for any record
// kind degrades to an empty in-memory collection for that kind rather than
// failing startup.
func New(store Store, opts Options) *Hub {
	h := &Hub{
		reg:        NewRegistry(),
		store:      store,
		opts:       opts,
		callCounts: make(map[string]int64),
		titleCaser: cases.Title(language.English),
	}
	h.load()
	return h
}

// Registry exposes the presence registry for read-side collaborators (the
// health surface reports the online count through it).
func (h *Hub) Registry() *Registry { return h.reg }

// load seeds every cache, logging and counting each failed kind.
func (h *Hub) load() {
	if msgs, err := h.store.Messages(); err != nil {
		h.loadFailed("messages", err)
	} else {
		h.messages = msgs
	}
	if entries, err := h.store.JournalEntries(); err != nil {
		h.loadFailed("journal", err)
	} else {
		h.journal = entries
	}
	if moments, err := h.store.Moments(); err != nil {
		h.loadFailed("moments", err)
	} else {
		h.moments = moments
	}
	if moods, err := h.store.Moods(); err != nil {
		h.loadFailed("moods", err)
	} else {
		h.moods = moods
	}
	if answers, err := h.store.QuizAnswers(); err != nil {
		h.loadFailed("quiz", err)
	} else {
		h.quiz = answers
	}
	if counts, err := h.store.CallCounts(); err != nil {
		h.loadFailed("call_counts", err)
	} else if counts != nil {
		h.callCounts = counts
	}
}

func (h *Hub) loadFailed(kind string, err error) {
	storeFailures.WithLabelValues("load_" + kind).Inc()
	log.Error().Err(err).Str("kind", kind).
		Msg("record store load failed, starting with empty collection")
}

// Join binds identity to c, announces the arrival to everyone else, and
// delivers the backlog sync to the new connection. The whole handshake runs
// under the hub mutex so a concurrently arriving broadcast cannot be observed
// by c before its own backlog.
func (h *Hub) Join(ctx context.Context, identity string, c Conn) error {
	_, span := tracer().Start(ctx, "Join",
		trace.WithAttributes(attribute.String("identity", identity)))
	defer span.End()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return ErrMissingIdentity
	}
	if c == nil {
		return ErrNilConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	replaced := h.reg.Attach(identity, c)
	if replaced != nil {
		log.Info().Str("identity", identity).
			Msg("reconnect supersedes prior binding, old connection orphaned")
	}
	onlineGauge.Set(float64(h.reg.Len()))

	// Announce to everyone already here.
	for _, b := range h.reg.snapshot() {
		if b.conn != c {
			b.conn.Send(EvUserOnline, identity)
			relayed(EvUserOnline)
		}
	}

	// Sync handshake, in causal order: who is here, then the backlog per
	// kind, then the derived stats.
	c.Send(EvUserList, h.reg.ListOnline())
	c.Send(EvMessagesSync, h.messagesInvolvingLocked(identity))
	c.Send(EvJournalSync, append([]domain.JournalEntry(nil), h.journal...))
	c.Send(EvMomentsSync, append([]domain.Moment(nil), h.moments...))
	c.Send(EvMoodSync, append([]domain.MoodStatus(nil), h.moods...))
	c.Send(EvQuizSync, append([]domain.QuizAnswer(nil), h.quiz...))
	c.Send(EvStatsSync, h.buildStatsLocked(identity))

	log.Info().Str("identity", identity).Int("online", h.reg.Len()).
		Msg("identity attached")
	return nil
}

// Disconnect removes c's binding, if it still holds one, and announces the
// departure. Duplicate disconnect signals and disconnects from superseded
// connections are no-ops. With call teardown enabled the remaining
// connections also get call:ended, so a peer mid-call does not wait for its
// own transport to notice.
func (h *Hub) Disconnect(c Conn) {
	if c == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	identity, ok := h.reg.Detach(c)
	if !ok {
		return
	}
	onlineGauge.Set(float64(h.reg.Len()))

	for _, b := range h.reg.snapshot() {
		b.conn.Send(EvUserOffline, identity)
		relayed(EvUserOffline)
		if h.opts.CallTeardownOnDisconnect {
			b.conn.Send(EvCallEnded, nil)
			relayed(EvCallEnded)
		}
	}

	log.Info().Str("identity", identity).Int("online", h.reg.Len()).
		Msg("identity detached")
}

// SendMessage persists a direct message and relays it to the recipient if
// online. Both parties' stats are pushed, since the message affects each
// side's counters. An offline recipient drops the delivery but never the
// persistence: the record surfaces in the recipient's next sync handshake.
func (h *Hub) SendMessage(ctx context.Context, from, to, body string) (*domain.Message, error) {
	_, span := tracer().Start(ctx, "SendMessage", trace.WithAttributes(
		attribute.String("from", from), attribute.String("to", to)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(to) == "" {
		return nil, ErrMissingRecipient
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	rec := domain.Message{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.AppendMessage(&rec); err != nil {
		h.appendFailed("message", err)
	}
	h.messages = append(h.messages, rec)

	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(EvMessageReceive, rec)
		relayed(EvMessageReceive)
	} else {
		dropped(EvMessageReceive)
	}

	h.pushStatsLocked(from, to)
	return &rec, nil
}

// AddJournal persists a journal entry and broadcasts it to every online
// identity. Journal counts are shared, so everyone's stats refresh.
func (h *Hub) AddJournal(ctx context.Context, from, text, mood string) (*domain.JournalEntry, error) {
	_, span := tracer().Start(ctx, "AddJournal",
		trace.WithAttributes(attribute.String("from", from)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyBody
	}

	rec := domain.JournalEntry{
		ID:        uuid.NewString(),
		From:      from,
		Text:      text,
		Mood:      mood,
		CreatedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.AppendJournalEntry(&rec); err != nil {
		h.appendFailed("journal", err)
	}
	h.journal = append(h.journal, rec)

	h.broadcastLocked(EvJournalNew, rec)
	h.pushStatsLocked(h.reg.ListOnline()...)
	return &rec, nil
}

// AddMoment persists a moment and broadcasts it. The moment's date is
// client-supplied; only the persistence timestamp is server-assigned.
func (h *Hub) AddMoment(ctx context.Context, from, title, description, date string) (*domain.Moment, error) {
	_, span := tracer().Start(ctx, "AddMoment",
		trace.WithAttributes(attribute.String("from", from)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyBody
	}

	rec := domain.Moment{
		ID:          uuid.NewString(),
		From:        from,
		Title:       title,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.AppendMoment(&rec); err != nil {
		h.appendFailed("moment", err)
	}
	h.moments = append(h.moments, rec)

	h.broadcastLocked(EvMomentsNew, rec)
	h.pushStatsLocked(h.reg.ListOnline()...)
	return &rec, nil
}

// UpdateMood replaces the sender's mood status (last write wins, at most one
// live record per identity) and broadcasts the new value.
func (h *Hub) UpdateMood(ctx context.Context, from, mood string, energy int) (*domain.MoodStatus, error) {
	_, span := tracer().Start(ctx, "UpdateMood",
		trace.WithAttributes(attribute.String("from", from)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(mood) == "" {
		return nil, ErrEmptyBody
	}

	rec := domain.MoodStatus{
		From:      from,
		Mood:      mood,
		Energy:    energy,
		UpdatedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.ReplaceMood(&rec); err != nil {
		h.appendFailed("mood", err)
	}
	h.moods = replaceMood(h.moods, rec)

	h.broadcastLocked(EvMoodNew, rec)
	return &rec, nil
}

// SubmitQuiz evaluates the answer against the injected answer key, persists
// the attempt either way, and replies to the sender only.
func (h *Hub) SubmitQuiz(ctx context.Context, from, questionID, answerID string) (*domain.QuizAnswer, error) {
	_, span := tracer().Start(ctx, "SubmitQuiz", trace.WithAttributes(
		attribute.String("from", from), attribute.String("question", questionID)))
	defer span.End()

	if strings.TrimSpace(from) == "" {
		return nil, ErrMissingIdentity
	}
	if strings.TrimSpace(questionID) == "" || strings.TrimSpace(answerID) == "" {
		return nil, ErrEmptyBody
	}

	correct := false
	if want, ok := h.opts.AnswerKey[questionID]; ok {
		correct = want == answerID
	}

	rec := domain.QuizAnswer{
		ID:         uuid.NewString(),
		From:       from,
		QuestionID: questionID,
		AnswerID:   answerID,
		Correct:    correct,
		CreatedAt:  time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.AppendQuizAnswer(&rec); err != nil {
		h.appendFailed("quiz", err)
	}
	h.quiz = append(h.quiz, rec)

	result := QuizResult{Unlocked: correct}
	if correct {
		result.Message = h.titleCaser.String(h.opts.UnlockMessage)
	} else {
		result.Message = "Not quite. Try again!"
	}
	if dst, ok := h.reg.Resolve(from); ok {
		dst.Send(EvQuizResult, result)
		relayed(EvQuizResult)
	} else {
		dropped(EvQuizResult)
	}
	return &rec, nil
}

// Typing relays a transient typing indicator to the recipient. Nothing is
// persisted and an offline recipient drops the event entirely.
func (h *Hub) Typing(ctx context.Context, from, to string, active bool) error {
	if strings.TrimSpace(from) == "" {
		return ErrMissingIdentity
	}
	if strings.TrimSpace(to) == "" {
		return ErrMissingRecipient
	}

	ev := EvTypingHide
	if active {
		ev = EvTypingShow
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if dst, ok := h.reg.Resolve(to); ok {
		dst.Send(ev, from)
		relayed(ev)
	} else {
		dropped(ev)
	}
	return nil
}

// broadcastLocked delivers an event to every bound connection. Callers hold
// h.mu.
func (h *Hub) broadcastLocked(event string, data any) {
	for _, b := range h.reg.snapshot() {
		b.conn.Send(event, data)
		relayed(event)
	}
}

// messagesInvolvingLocked filters the message cache to records where identity
// is sender or recipient. Callers hold h.mu.
func (h *Hub) messagesInvolvingLocked(identity string) []domain.Message {
	out := make([]domain.Message, 0, len(h.messages))
	for _, m := range h.messages {
		if m.From == identity || m.To == identity {
			out = append(out, m)
		}
	}
	return out
}

// appendFailed records a best-effort persistence failure. Relay continues.
func (h *Hub) appendFailed(kind string, err error) {
	storeFailures.WithLabelValues("append_" + kind).Inc()
	log.Error().Err(err).Str("kind", kind).
		Msg("record store append failed, continuing with in-memory state")
}

// replaceMood swaps the identity's entry in place, appending on first write.
func replaceMood(moods []domain.MoodStatus, rec domain.MoodStatus) []domain.MoodStatus {
	for i := range moods {
		if moods[i].From == rec.From {
			moods[i] = rec
			return moods
		}
	}
	return append(moods, rec)
}

func tracer() trace.Tracer { return otel.Tracer("hub") }
