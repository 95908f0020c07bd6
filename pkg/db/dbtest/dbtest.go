// Package dbtest opens isolated in-memory sqlite databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db"
	"github.com/moonpos/moonpos-backend/pkg/db/models"
)

// Open returns a migrated sqlite database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:moonpos_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// Client wraps Open in a db.Client for services that need WithTx.
func Client(t testing.TB) (*db.Client, *gorm.DB) {
	t.Helper()
	conn := Open(t)
	return db.NewFromConn(conn), conn
}
