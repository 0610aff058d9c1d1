package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// OverlapGuard names the storage-level rule that keeps active appointments
// on one date disjoint: an exclusion constraint on Postgres, a pair of
// triggers on SQLite.
const OverlapGuard = "appointments_no_overlap"

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

func isOverlapViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint &&
			strings.Contains(liteErr.Error(), OverlapGuard)
	}

	return strings.Contains(err.Error(), OverlapGuard)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
