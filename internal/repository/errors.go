// Package repository issues every query the engine runs. It owns no business
// rules: callers get rows, gorm.ErrRecordNotFound, or the storage error.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const pgUniqueViolation = "23505"

// ErrExpired is returned when a stored credential exists but is past its TTL.
var ErrExpired = errors.New("credential expired")

// IsUniqueViolation reports whether err is a duplicate-key failure, whether it
// arrives translated by gorm or raw from the pgx driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
