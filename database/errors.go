package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlforge/dberr"
)

// SQLSTATE class 23 codes.
const (
	sqlStateNotNull    = "23502"
	sqlStateForeignKey = "23503"
	sqlStateUnique     = "23505"
	sqlStateCheck      = "23514"
)

type sqlStateError interface {
	SQLState() string
}

// ConstraintForSQLState returns the constraint sentinel of a SQLSTATE code, or
// nil when the code is not a known constraint violation.
func ConstraintForSQLState(code string) error {
	switch code {
	case sqlStateUnique:
		return dberr.ErrUniqueConstraint
	case sqlStateForeignKey:
		return dberr.ErrForeignKeyConstraint
	case sqlStateNotNull:
		return dberr.ErrNullConstraint
	case sqlStateCheck:
		return dberr.ErrCheckConstraint
	}
	return nil
}

// ConstraintFromMessage matches the messages drivers use when they expose no
// structured code.
func ConstraintFromMessage(msg string) error {
	switch {
	case containsAny(msg, "violates unique constraint", "UNIQUE constraint failed", "Duplicate entry"):
		return dberr.ErrUniqueConstraint
	case containsAny(msg, "violates foreign key constraint", "FOREIGN KEY constraint failed", "a foreign key constraint fails"):
		return dberr.ErrForeignKeyConstraint
	case containsAny(msg, "violates not-null constraint", "NOT NULL constraint failed", "cannot be null"):
		return dberr.ErrNullConstraint
	case containsAny(msg, "violates check constraint", "CHECK constraint failed", "Check constraint"):
		return dberr.ErrCheckConstraint
	}
	return nil
}

// ClassifyGeneric is the fallback used by backends before and after their
// native error checks: SQLSTATE carrying errors first, then message matching.
func ClassifyGeneric(err error) error {
	var se sqlStateError
	if errors.As(err, &se) {
		if sentinel := ConstraintForSQLState(se.SQLState()); sentinel != nil {
			return Wrap(sentinel, err)
		}
	}
	if sentinel := ConstraintFromMessage(err.Error()); sentinel != nil {
		return Wrap(sentinel, err)
	}
	return err
}

// Wrap attaches sentinel to a native error so both match errors.Is.
func Wrap(sentinel, native error) error {
	return fmt.Errorf("%w: %w", sentinel, native)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isConnectionError reports failures of the connection itself rather than of
// the statement.
func isConnectionError(err error) bool {
	return errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone)
}
