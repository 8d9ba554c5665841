package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return true
	}

	return false
}

// isRetryableTxErr reports whether a transaction failed due to a conflict
// with a concurrent writer and can be safely re-run from scratch.
func isRetryableTxErr(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// PostgreSQL serialization failure / deadlock (40001, 40P01)
	if strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01") {
		return true
	}
	if strings.Contains(msg, "could not serialize access") || strings.Contains(msg, "deadlock detected") {
		return true
	}

	// SQLite busy / locked under concurrent writers
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return true
	}

	return false
}
