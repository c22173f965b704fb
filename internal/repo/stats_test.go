package repo

import (
	"context"
	"testing"
	"time"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

func TestLogStatsEmptyLog(t *testing.T) {
	db := newTestDB(t)

	count, latest, err := LogStats(context.Background(), db, &domain.JournalEntry{})
	if err != nil {
		t.Fatalf("LogStats: %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("empty log stats = %d, %v; want 0, nil", count, latest)
	}
}

func TestLogStatsCountAndLatest(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 8, 4, 7, 0, 0, 0, time.UTC)

	for i, e := range []domain.JournalEntry{
		{ID: "j1", From: "alex", Text: "a", CreatedAt: base},
		{ID: "j2", From: "sam", Text: "b", CreatedAt: base.Add(2 * time.Hour)},
	} {
		e := e
		if err := CreateJournalEntry(db, &e); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	count, latest, err := LogStats(context.Background(), db, &domain.JournalEntry{})
	if err != nil {
		t.Fatalf("LogStats: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if latest == nil || !latest.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("latest = %v, want %v", latest, base.Add(2*time.Hour))
	}
}

func TestMessageStatsScopedToIdentity(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 8, 4, 7, 0, 0, 0, time.UTC)

	for i, m := range []domain.Message{
		{ID: "m1", From: "alex", To: "sam", Body: "a", CreatedAt: base},
		{ID: "m2", From: "sam", To: "casey", Body: "b", CreatedAt: base.Add(time.Hour)},
	} {
		m := m
		if err := CreateMessage(db, &m); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	count, latest, err := MessageStats(context.Background(), db, "alex")
	if err != nil {
		t.Fatalf("MessageStats: %v", err)
	}
	if count != 1 {
		t.Fatalf("alex count = %d, want 1", count)
	}
	if latest == nil || !latest.Equal(base) {
		t.Fatalf("alex latest = %v, want %v", latest, base)
	}

	count, latest, err = MessageStats(context.Background(), db, "nobody")
	if err != nil {
		t.Fatalf("MessageStats(nobody): %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("nobody stats = %d, %v; want 0, nil", count, latest)
	}
}
