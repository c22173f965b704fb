// Package hub, Store contract.
//
// The durable record store is an external collaborator: an ordered per-kind
// log the hub reads once at startup and appends to on relay. Persistence is
// best-effort from the hub's point of view. A failed append is logged and the
// in-memory copy proceeds regardless, so a storage outage degrades durability
// but never availability.
package hub

import "github.com/duetapp/go-duet-backend/internal/domain"

// Store is the typed contract for the per-kind persisted logs. Every List
// method returns records in stable log order (creation time, then ID).
// ReplaceMood is the one non-append write: upsert keyed by identity,
// last write wins. CallCounts/SaveCallCounts move the counter table as a
// whole snapshot.
type Store interface {
	Messages() ([]domain.Message, error)
	AppendMessage(*domain.Message) error

	JournalEntries() ([]domain.JournalEntry, error)
	AppendJournalEntry(*domain.JournalEntry) error

	Moments() ([]domain.Moment, error)
	AppendMoment(*domain.Moment) error

	Moods() ([]domain.MoodStatus, error)
	ReplaceMood(*domain.MoodStatus) error

	QuizAnswers() ([]domain.QuizAnswer, error)
	AppendQuizAnswer(*domain.QuizAnswer) error

	CallCounts() (map[string]int64, error)
	SaveCallCounts(map[string]int64) error
}
