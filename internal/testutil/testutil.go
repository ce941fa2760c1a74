package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"labcore/internal/config"
	"labcore/internal/database"
	"labcore/internal/platform/logger"
)

var dbSeq atomic.Int64

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.NewNop()
}

// Config returns a development configuration pointing at a private
// in-memory SQLite database named after the test.
func Config(tb testing.TB) config.Config {
	tb.Helper()
	cfg := config.Default()
	cfg.AppEnv = "test"
	cfg.Database.URL = fmt.Sprintf("file:%s_%d?mode=memory", sanitize(tb.Name()), dbSeq.Add(1))
	cfg.Database.LogLevel = "silent"
	return cfg
}

// DB opens and migrates a fresh database for one test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	return Open(tb, Config(tb))
}

func Open(tb testing.TB, cfg config.Config) *gorm.DB {
	tb.Helper()
	db, err := database.Connect(cfg.Database, Logger(tb))
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Tx begins a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.WithContext(context.Background()).Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
