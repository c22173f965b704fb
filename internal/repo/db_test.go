package repo

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// newTestDB opens a throwaway SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenSQLite(path, false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestOpenSQLiteCreatesDatabase(t *testing.T) {
	db := newTestDB(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB(): %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpenSQLiteMissingParentDirFailsEarly(t *testing.T) {
	if _, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "test.db"), false); err == nil {
		t.Fatal("missing parent directory should fail open")
	}
}
