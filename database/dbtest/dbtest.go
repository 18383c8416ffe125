// Package dbtest menyiapkan database SQLite sementara untuk test repository,
// service, dan routes.
package dbtest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"task-management-backend/database"
)

// Open membuat database baru di t.TempDir() yang sudah dimigrasi.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), cfg)
	if err != nil {
		t.Fatalf("dbtest.Open() failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("dbtest.Open() migrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// ErrInjected dikembalikan oleh FailInserts.
var ErrInjected = errors.New("dbtest: insert digagalkan")

// FailInserts membuat setiap INSERT ke table gagal dengan ErrInjected.
// Dipakai untuk menguji rollback transaksi.
func FailInserts(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	err := db.Callback().Create().Before("gorm:create").
		Register("dbtest:fail_"+table, func(tx *gorm.DB) {
			if tx.Statement.Table == table {
				tx.AddError(ErrInjected)
			}
		})
	if err != nil {
		t.Fatalf("dbtest.FailInserts() failed: %v", err)
	}
}
