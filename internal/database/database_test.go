package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"labcore/internal/config"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

func TestSqliteDSN(t *testing.T) {
	tests := map[string]string{
		":memory:":                     "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"labcore.db":                   "labcore.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"file:x?mode=memory":           "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		"a.db?_pragma=foreign_keys(0)": "a.db?_pragma=foreign_keys(0)",
	}
	for in, want := range tests {
		assert.Equal(t, want, sqliteDSN(in), in)
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, logLevel("silent"))
	assert.Equal(t, gormlogger.Info, logLevel("info"))
	assert.Equal(t, gormlogger.Warn, logLevel(""))
}

func TestClassify(t *testing.T) {
	require.NoError(t, Classify(nil))

	err := Classify(fmt.Errorf("get: %w", gorm.ErrRecordNotFound))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, code := range []string{"23502", "23503", "23505", "23514", "22P02"} {
		pg := &pgconn.PgError{Code: code, ConstraintName: "chk_booking_window"}
		err := Classify(pg)
		assert.ErrorIs(t, err, domain.ErrConstraintViolation, code)
		var back *pgconn.PgError
		assert.True(t, errors.As(err, &back), "original error stays in the chain")
	}
	assert.Equal(t, "other", domain.Kind(Classify(&pgconn.PgError{Code: "42P01"})))

	for _, code := range []string{"40001", "40P01"} {
		err := Classify(fmt.Errorf("commit: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConflict, code)
		assert.NotErrorIs(t, err, domain.ErrConstraintViolation, code)
		assert.Equal(t, "conflict", domain.Kind(err), code)
	}

	assert.ErrorIs(t, Classify(context.DeadlineExceeded), domain.ErrTransportFailure)
	assert.ErrorIs(t, Classify(gorm.ErrDuplicatedKey), domain.ErrConstraintViolation)

	already := fmt.Errorf("x: %w", domain.ErrOverlap)
	assert.Same(t, already, Classify(already))

	plain := errors.New("something else")
	assert.Same(t, plain, Classify(plain))
}

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database.URL = fmt.Sprintf("file:%s?mode=memory", t.Name())
	cfg.Database.LogLevel = "silent"
	db, err := Connect(cfg.Database, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migration is repeatable")

	m := db.Migrator()
	for _, table := range []string{
		"laboratory", "account", "profile", "project", "partner", "equipment", "equipment_type",
		"room", "resource", "presentation", "report", "publication", "software_repository",
		"dataset", "booking", "booking_history", "project_resource", "project_partner", "project_participant",
	} {
		assert.True(t, m.HasTable(table), table)
	}
	assert.True(t, m.HasConstraint(&domain.Booking{}, "chk_booking_window"))
}

func TestSqliteConstraintsAreClassified(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	err := db.Exec("INSERT INTO equipment (status, laboratory_id) VALUES ('active', 12345)").Error
	assert.ErrorIs(t, Classify(err), domain.ErrConstraintViolation, "foreign keys are enforced")

	require.NoError(t, db.Exec("INSERT INTO laboratory (title) VALUES ('Lab')").Error)
	err = db.Exec("INSERT INTO equipment (status, laboratory_id) VALUES ('exploded', 1)").Error
	assert.ErrorIs(t, Classify(err), domain.ErrConstraintViolation)
}
