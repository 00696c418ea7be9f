// Package dberr defines the error taxonomy shared by every sqlforge package.
package dberr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by sqlforge matches exactly one of the
// category sentinels (ErrConnection, ErrBuild, ErrConversion, ErrExecution,
// ErrUnsupported) through errors.Is, and possibly a more specific one.
var (
	// ErrConnection indicates a failure to obtain or use a connection.
	ErrConnection = errors.New("sqlforge: connection error")

	// ErrPoolExhausted indicates no pooled connection became available.
	ErrPoolExhausted = fmt.Errorf("%w: pool exhausted", ErrConnection)

	// ErrBuild indicates a malformed statement detected before execution.
	ErrBuild = errors.New("sqlforge: build error")

	// ErrConversion indicates a value could not be converted to the requested type.
	ErrConversion = errors.New("sqlforge: conversion error")

	// ErrMissing indicates the requested column is not present in the row.
	ErrMissing = fmt.Errorf("%w: column missing", ErrConversion)

	// ErrNull indicates the requested column is present but NULL.
	ErrNull = fmt.Errorf("%w: unexpected null", ErrConversion)

	// ErrTypeMismatch indicates the stored value has a different type tag.
	ErrTypeMismatch = fmt.Errorf("%w: type mismatch", ErrConversion)

	// ErrExecution indicates the backend rejected or failed a statement.
	ErrExecution = errors.New("sqlforge: execution error")

	// ErrUnsupported indicates the backend lacks a requested capability.
	ErrUnsupported = errors.New("sqlforge: unsupported feature")

	// ErrNotFound indicates a single-row operation found no row.
	ErrNotFound = errors.New("sqlforge: record not found")

	// ErrTransaction indicates an invalid transaction state transition.
	ErrTransaction = fmt.Errorf("%w: transaction", ErrExecution)

	// ErrUniqueConstraint indicates a unique constraint violation.
	ErrUniqueConstraint = fmt.Errorf("%w: unique constraint violation", ErrExecution)

	// ErrForeignKeyConstraint indicates a foreign key constraint violation.
	ErrForeignKeyConstraint = fmt.Errorf("%w: foreign key constraint violation", ErrExecution)

	// ErrNullConstraint indicates a not-null constraint violation.
	ErrNullConstraint = fmt.Errorf("%w: null constraint violation", ErrExecution)

	// ErrCheckConstraint indicates a check constraint violation.
	ErrCheckConstraint = fmt.Errorf("%w: check constraint violation", ErrExecution)
)

// Kind classifies an Error.
type Kind int

const (
	// KindConnection covers connect and pool failures.
	KindConnection Kind = iota + 1
	// KindBuild covers malformed statements.
	KindBuild
	// KindExecution covers backend failures.
	KindExecution
	// KindUnsupported covers missing dialect or backend capabilities.
	KindUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindBuild:
		return "build"
	case KindExecution:
		return "execution"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnection
	case KindBuild:
		return ErrBuild
	case KindExecution:
		return ErrExecution
	case KindUnsupported:
		return ErrUnsupported
	default:
		return nil
	}
}

// Error is a rich error carrying the failing operation and, for execution
// failures, the statement that was sent.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	SQL     string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	} else if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Op != "" {
		return fmt.Sprintf("sqlforge [%s] %s: %s", e.Kind, e.Op, msg)
	}
	return fmt.Sprintf("sqlforge [%s] %s", e.Kind, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the category sentinel of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Build returns a build error.
func Build(format string, args ...any) *Error {
	return &Error{Kind: KindBuild, Message: fmt.Sprintf(format, args...)}
}

// Unsupported returns an error describing a feature the dialect or backend lacks.
func Unsupported(dialect, feature string) *Error {
	return &Error{
		Kind:    KindUnsupported,
		Op:      dialect,
		Message: feature + " is not supported",
	}
}

// Connection wraps a connection failure.
func Connection(op string, cause error) *Error {
	return &Error{Kind: KindConnection, Op: op, Cause: cause}
}

// Execution wraps a backend failure together with the statement that caused it.
func Execution(op, sql string, cause error) *Error {
	return &Error{Kind: KindExecution, Op: op, SQL: sql, Cause: cause}
}

// ConversionKind distinguishes why a value could not be converted.
type ConversionKind int

const (
	// Missing means the column does not exist in the row.
	Missing ConversionKind = iota + 1
	// Null means the column exists but holds NULL.
	Null
	// TypeMismatch means the column holds a value of another type.
	TypeMismatch
)

func (k ConversionKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Null:
		return "null"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// ConversionError is returned by typed accessors.
type ConversionError struct {
	Kind     ConversionKind
	Column   string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	var where string
	if e.Column != "" {
		where = fmt.Sprintf(" for column %q", e.Column)
	}
	switch e.Kind {
	case Missing:
		return fmt.Sprintf("sqlforge [conversion] column missing%s", where)
	case Null:
		return fmt.Sprintf("sqlforge [conversion] unexpected null%s, expected %s", where, e.Expected)
	default:
		return fmt.Sprintf("sqlforge [conversion] cannot convert %s to %s%s", e.Actual, e.Expected, where)
	}
}

// Is matches ErrConversion and the sentinel of the conversion sub-kind.
func (e *ConversionError) Is(target error) bool {
	if target == ErrConversion {
		return true
	}
	switch e.Kind {
	case Missing:
		return target == ErrMissing
	case Null:
		return target == ErrNull
	case TypeMismatch:
		return target == ErrTypeMismatch
	}
	return false
}

// WithColumn returns a copy of e attributed to column.
func (e *ConversionError) WithColumn(column string) *ConversionError {
	c := *e
	c.Column = column
	return &c
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueConstraint reports whether err is a unique constraint violation.
func IsUniqueConstraint(err error) bool {
	return errors.Is(err, ErrUniqueConstraint)
}

// IsForeignKeyConstraint reports whether err is a foreign key constraint violation.
func IsForeignKeyConstraint(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}
