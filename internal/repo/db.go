// Package repo implements the record store for domain entities, backed by
// GORM. Each record kind is an append-only log except mood statuses, which are
// upserted by identity. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/duetapp/go-duet-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs, and
// configures the connection pool. When trace is true the GORM OpenTelemetry
// plugin is installed so record-store queries show up as spans.
func OpenSQLite(path string, trace bool) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist (instead of the
	// opaque sqlite "out of memory (14)" on some platforms).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for every persisted record kind.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Message{},
		&domain.JournalEntry{},
		&domain.Moment{},
		&domain.MoodStatus{},
		&domain.QuizAnswer{},
		&domain.CallCount{},
	)
}
