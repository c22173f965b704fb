// Package repo implements the record store for domain entities, backed by
// GORM. This file provides the append-only message log.
package repo

import (
	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// CreateMessage appends a message row. The caller assigns ID and CreatedAt so
// the persisted row matches what was already relayed.
func CreateMessage(db *gorm.DB, m *domain.Message) error {
	return db.Create(m).Error
}

// ListMessages returns the full message log ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListMessages(db *gorm.DB) ([]domain.Message, error) {
	var out []domain.Message
	err := db.Order("created_at ASC, id ASC").Find(&out).Error
	return out, err
}

// ListMessagesInvolving returns messages where the identity is sender or
// recipient, in log order. Durable counterpart of the per-identity filter the
// relay applies to its cache.
func ListMessagesInvolving(db *gorm.DB, identity string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.
		Where("from_id = ? OR to_id = ?", identity, identity).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// CountMessagesInvolving uses a raw COUNT so a missing table surfaces as an
// error rather than a silent zero.
func CountMessagesInvolving(db *gorm.DB, identity string) (int64, error) {
	var total int64
	err := db.Raw(
		"SELECT COUNT(*) FROM messages WHERE from_id = ? OR to_id = ?",
		identity, identity,
	).Scan(&total).Error
	return total, err
}
