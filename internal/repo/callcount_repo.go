// Package repo implements the record store for domain entities, backed by
// GORM. This file persists the call-counter snapshot: one row per identity,
// rewritten whenever a call is accepted.
package repo

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// ListCallCounts loads the full counter table as an identity → count map.
func ListCallCounts(db *gorm.DB) (map[string]int64, error) {
	var rows []domain.CallCount
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Identity] = r.Count
	}
	return out, nil
}

// SaveCallCounts writes the snapshot, upserting each identity's row.
func SaveCallCounts(db *gorm.DB, counts map[string]int64) error {
	now := time.Now().UTC()
	for identity, count := range counts {
		row := domain.CallCount{Identity: identity, Count: count, UpdatedAt: now}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
