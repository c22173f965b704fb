// Package repo implements the record store for domain entities, backed by
// GORM. This file provides mood statuses (at most one live row per identity)
// and quiz answers (append-only).
package repo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// UpsertMood replaces the identity's mood status, inserting on first write.
// This implements the last-write-wins contract for the one mutable record kind.
func UpsertMood(db *gorm.DB, m *domain.MoodStatus) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "from_id"}},
		UpdateAll: true,
	}).Create(m).Error
}

// ListMoods returns every identity's current mood status ordered by identity
// for deterministic sync payloads.
func ListMoods(db *gorm.DB) ([]domain.MoodStatus, error) {
	var out []domain.MoodStatus
	err := db.Order("from_id ASC").Find(&out).Error
	return out, err
}

// CreateQuizAnswer appends a quiz answer row, correct or not.
func CreateQuizAnswer(db *gorm.DB, a *domain.QuizAnswer) error {
	return db.Create(a).Error
}

// ListQuizAnswers returns the full quiz answer log ordered (CreatedAt ASC, ID ASC).
func ListQuizAnswers(db *gorm.DB) ([]domain.QuizAnswer, error) {
	var out []domain.QuizAnswer
	err := db.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}
