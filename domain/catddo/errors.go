package catddo

import (
	"errors"
	"fmt"
)

// Kind classifies a reporting failure. Every kind aborts the run.
type Kind string

const (
	KindMissingFile        Kind = "MISSING_FILE"
	KindMissingMetadataKey Kind = "MISSING_METADATA_KEY"
	KindSchema             Kind = "SCHEMA"
	KindNumericParse       Kind = "NUMERIC_PARSE"
	KindDivisionByZero     Kind = "DIVISION_BY_ZERO"
	KindEmptyResult        Kind = "EMPTY_RESULT"
)

// Error is the typed failure returned by the loader, preparer and aggregator.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same kind, so sentinel values such as
// ErrEmptyResult work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// With adds a context attribute and returns the receiver.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is; they carry a kind and nothing else.
var (
	ErrMissingFile        = &Error{Kind: KindMissingFile}
	ErrMissingMetadataKey = &Error{Kind: KindMissingMetadataKey}
	ErrSchema             = &Error{Kind: KindSchema}
	ErrNumericParse       = &Error{Kind: KindNumericParse}
	ErrDivisionByZero     = &Error{Kind: KindDivisionByZero}
	ErrEmptyResult        = &Error{Kind: KindEmptyResult}
)

func newError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NewMissingFileError(path string, cause error) *Error {
	return newError(KindMissingFile, cause, "input file %s not found", path).With("path", path)
}

func NewMissingMetadataKeyError(key string) *Error {
	return newError(KindMissingMetadataKey, nil, "metadata key %s is missing", key).With("key", key)
}

func NewSchemaError(format string, args ...any) *Error {
	return newError(KindSchema, nil, format, args...)
}

func NewNumericParseError(column string, row int, value string, cause error) *Error {
	return newError(KindNumericParse, cause, "column %q row %d: %q is not numeric", column, row, value).
		With("column", column).With("row", row)
}

func NewDivisionByZeroError(format string, args ...any) *Error {
	return newError(KindDivisionByZero, nil, format, args...)
}

func NewEmptyResultError(format string, args ...any) *Error {
	return newError(KindEmptyResult, nil, format, args...)
}

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
