// Package sqlerr translates database driver errors into the application's
// error taxonomy.
//
// It parses SQLSTATE codes from the Postgres driver and converts them into
// user-facing errors (e.g. a unique violation becomes a 400 with "A review
// for this tour already exists") so driver internals never reach a client.
package sqlerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Code categorizes database errors into the handful of cases the
// application reacts to.
type Code string

const (
	UniqueViolation     Code = "unique_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	NotNullViolation    Code = "not_null_violation"
	CheckViolation      Code = "check_violation"
	InvalidTextRep      Code = "invalid_text_representation"
	Other               Code = "other"
)

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23505":
		return UniqueViolation
	case "23503":
		return ForeignKeyViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	case "22P02":
		// malformed uuid or enum literal in a parameter
		return InvalidTextRep
	default:
		return Other
	}
}

// Error is the normalized database error carrying the metadata needed to
// build user-facing messages.
type Error struct {
	Code           Code
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// ErrCode reports the mapped Code for err, accepting both normalized
// errors and raw driver errors. Anything else reports Other.
func ErrCode(err error) Code {
	var dberr *Error
	if errors.As(err, &dberr) {
		return dberr.Code
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}

	return Other
}
