package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	sqlStateUniqueViolation = "23505"
	sqlStateCheckViolation  = "23514"
	sqlStateRaiseException  = "P0001"
)

// StoreError is the driver-neutral view of a Postgres error.
type StoreError struct {
	SQLState   string
	Constraint string
	Message    string
}

// AsStoreError extracts Postgres error fields from pgx or lib/pq errors.
func AsStoreError(err error) (StoreError, bool) {
	if err == nil {
		return StoreError{}, false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return StoreError{SQLState: pgErr.Code, Constraint: pgErr.ConstraintName, Message: pgErr.Message}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return StoreError{SQLState: string(pqErr.Code), Constraint: pqErr.Constraint, Message: pqErr.Message}, true
	}
	return StoreError{}, false
}

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation constraint. When constraintName is provided, the helper
// requires that constraint to be the one that fired.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if se, ok := AsStoreError(err); ok {
		if se.SQLState != sqlStateUniqueViolation {
			return false
		}
		return constraintName == "" || se.Constraint == constraintName
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}

// UniqueConstraint returns the name (or message text for drivers without
// structured fields) of the unique constraint that fired, or "".
func UniqueConstraint(err error) string {
	if !IsUniqueViolation(err, "") {
		return ""
	}
	if se, ok := AsStoreError(err); ok && se.Constraint != "" {
		return se.Constraint
	}
	return err.Error()
}

// IsRaiseException reports a RAISE EXCEPTION from a trigger or function.
func IsRaiseException(err error) bool {
	se, ok := AsStoreError(err)
	return ok && se.SQLState == sqlStateRaiseException
}

// IsCheckViolation reports a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	if se, ok := AsStoreError(err); ok {
		return se.SQLState == sqlStateCheckViolation
	}
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}

// StoreMessage returns the message reported by the store, falling back to the
// error text.
func StoreMessage(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := AsStoreError(err); ok && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
