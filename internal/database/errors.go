package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"labcore/internal/domain"
)

// PostgreSQL SQLSTATE codes of integrity and data errors.
var pgConstraintCodes = map[string]bool{
	"23502": true, // not_null_violation
	"23503": true, // foreign_key_violation
	"23505": true, // unique_violation
	"23514": true, // check_violation
	"22P02": true, // invalid_text_representation
}

var pgConflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// Classify maps a store error onto a domain error kind, keeping the original
// error in the chain. Errors that already carry a kind are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if domain.Kind(err) != "other" {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgConstraintCodes[pgErr.Code]:
			return fmt.Errorf("%w: %s: %w", domain.ErrConstraintViolation, pgErr.ConstraintName, err)
		case pgConflictCodes[pgErr.Code]:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	}

	if isTransport(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "constraint failed") || strings.Contains(msg, "violates") {
		return fmt.Errorf("%w: %w", domain.ErrConstraintViolation, err)
	}
	return err
}

func isTransport(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}
