package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/moonpos/moonpos-backend/pkg/db/models"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:db_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestWithTx_RollsBackCancelledContext(t *testing.T) {
	db := newTestDB(t)
	client := NewFromConn(db)

	ctx, cancel := context.WithCancel(context.Background())
	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "late"}).Error; err != nil {
			return err
		}
		cancel()
		return nil
	})
	if err == nil {
		t.Fatal("expected cancelled context to abort the transaction")
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no committed rows, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromConn(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestAutoMigrateCreatesModelTables(t *testing.T) {
	conn := newTestDB(t)
	client := NewFromConn(conn)
	if err := client.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	for _, model := range models.All() {
		if !conn.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn := newTestDB(t)
	if err := conn.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := conn.Create(&testModel{Name: "dup"}).Error
	if err == nil {
		t.Fatal("expected sqlite unique violation")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected sqlite error to be recognised: %v", err)
	}

	pgErr := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_products_sku"})
	if !IsUniqueViolation(pgErr, "idx_products_sku") {
		t.Fatal("expected pg unique violation to match constraint")
	}
	if IsUniqueViolation(pgErr, "idx_orders_order_number") {
		t.Fatal("expected constraint mismatch to be rejected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violation is not a unique violation")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey, "") {
		t.Fatal("expected gorm duplicated key to be recognised")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil is not a violation")
	}
}

func TestForUpdateSkipsSQLite(t *testing.T) {
	conn := newTestDB(t)
	stmt := ForUpdate(conn.Session(&gorm.Session{DryRun: true})).Find(&[]testModel{}).Statement
	if got := stmt.SQL.String(); got == "" {
		t.Fatal("expected dry run SQL")
	} else if strings.Contains(strings.ToUpper(got), "FOR UPDATE") {
		t.Fatalf("sqlite query must not carry a row lock: %s", got)
	}
}

func TestNowIsUTCMicrosecond(t *testing.T) {
	now := Now()
	if now.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", now.Location())
	}
	if now.Nanosecond()%1000 != 0 {
		t.Fatalf("expected microsecond precision, got %d ns", now.Nanosecond())
	}
}
