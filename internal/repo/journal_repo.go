// Package repo implements the record store for domain entities, backed by
// GORM. This file provides the journal and moment logs, both append-only and
// shared between the two correspondents.
package repo

import (
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// CreateJournalEntry appends a journal entry row.
func CreateJournalEntry(db *gorm.DB, e *domain.JournalEntry) error {
	return db.Create(e).Error
}

// ListJournalEntries returns the full journal log ordered (CreatedAt ASC, ID ASC).
func ListJournalEntries(db *gorm.DB) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := db.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

// CreateMoment appends a moment row.
func CreateMoment(db *gorm.DB, m *domain.Moment) error {
	return db.Create(m).Error
}

// ListMoments returns the full moment log ordered (CreatedAt ASC, ID ASC).
func ListMoments(db *gorm.DB) ([]domain.Moment, error) {
	var out []domain.Moment
	err := db.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}
