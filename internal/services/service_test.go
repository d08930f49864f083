package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/podtruth/go-factcheck-backend/internal/domain"
)

// newServiceDB opens a throwaway file-backed SQLite DB with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	err = db.AutoMigrate(
		&domain.Episode{},
		&domain.FactCheck{},
		&domain.Comment{},
		&domain.Vote{},
		&domain.KarmaHistoryEntry{},
		&domain.UserKarma{},
		&domain.Notification{},
		&domain.Idempotency{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}
