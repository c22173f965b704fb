// Package repo implements the record store for domain entities, backed by
// GORM. This file provides small aggregate queries over the persisted logs,
// used by the health/debug surface. The hub computes live stats from its
// in-memory caches; these exist so operators can cross-check the durable state
// without going through a connection.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// LogStats returns the row count and greatest CreatedAt for one record kind.
// When the log is empty the returned count is 0 and maxCreatedAt is nil.
func LogStats(ctx context.Context, db *gorm.DB, model any) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(model)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

// MessageStats returns aggregate metadata for messages involving an identity:
// total rows and the greatest CreatedAt among them, or nil when there are none.
func MessageStats(ctx context.Context, db *gorm.DB, identity string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Message{}).
		Where("from_id = ? OR to_id = ?", identity, identity)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
