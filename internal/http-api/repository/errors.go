package repository

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Storage failures fall into two classes the ingestion layer cares about:
// constraint violations (terminal for the record) and lost connections
// (worth one bounded retry of the same record).

// IsConstraintViolation reports whether err is a uniqueness or integrity
// constraint failure. SQLSTATE class 23 covers unique, foreign-key and
// not-null violations.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsRetryable reports whether err looks like a connection-level fault that a
// fresh attempt may survive: SQLSTATE class 08 (connection exception),
// a server shutdown, a bad pooled connection, or a network error.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") ||
			pgErr.Code == "57P01" // admin_shutdown
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, driver.ErrBadConn)
}
