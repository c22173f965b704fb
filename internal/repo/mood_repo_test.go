package repo

import (
	"testing"
	"time"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

func TestUpsertMoodLastWriteWins(t *testing.T) {
	db := newTestDB(t)

	first := domain.MoodStatus{From: "alex", Mood: "gloomy", Energy: 2,
		UpdatedAt: time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)}
	if err := UpsertMood(db, &first); err != nil {
		t.Fatalf("UpsertMood: %v", err)
	}

	second := first
	second.Mood = "sunny"
	second.Energy = 9
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)
	if err := UpsertMood(db, &second); err != nil {
		t.Fatalf("UpsertMood (replace): %v", err)
	}

	moods, err := ListMoods(db)
	if err != nil {
		t.Fatalf("ListMoods: %v", err)
	}
	if len(moods) != 1 {
		t.Fatalf("moods = %+v, want exactly one row per identity", moods)
	}
	if moods[0].Mood != "sunny" || moods[0].Energy != 9 {
		t.Fatalf("mood = %+v, want the later write", moods[0])
	}
}

func TestListMoodsOrderedByIdentity(t *testing.T) {
	db := newTestDB(t)

	for _, m := range []domain.MoodStatus{
		{From: "sam", Mood: "calm", Energy: 5},
		{From: "alex", Mood: "bright", Energy: 7},
	} {
		m := m
		if err := UpsertMood(db, &m); err != nil {
			t.Fatalf("UpsertMood: %v", err)
		}
	}

	moods, err := ListMoods(db)
	if err != nil {
		t.Fatalf("ListMoods: %v", err)
	}
	if len(moods) != 2 || moods[0].From != "alex" || moods[1].From != "sam" {
		t.Fatalf("moods = %+v, want identity ascending", moods)
	}
}

func TestQuizAnswerLogKeepsEveryAttempt(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC)

	attempts := []domain.QuizAnswer{
		{ID: "a1", From: "alex", QuestionID: "q1", AnswerID: "a", Correct: false, CreatedAt: base},
		{ID: "a2", From: "alex", QuestionID: "q1", AnswerID: "b", Correct: true, CreatedAt: base.Add(time.Minute)},
	}
	for i := range attempts {
		if err := CreateQuizAnswer(db, &attempts[i]); err != nil {
			t.Fatalf("CreateQuizAnswer: %v", err)
		}
	}

	got, err := ListQuizAnswers(db)
	if err != nil {
		t.Fatalf("ListQuizAnswers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("answers = %+v, want both attempts kept", got)
	}
	if got[0].Correct || !got[1].Correct {
		t.Fatalf("answers = %+v, want wrong then right", got)
	}
}
