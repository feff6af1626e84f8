package topsis

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies every failure the scorer and its boundary can report.
type Kind int

const (
	KindInternal Kind = iota
	KindFormat
	KindNotFound
	KindEmptyInput
	KindShape
	KindValue
	KindType
	KindDegenerateColumn
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "FormatError"
	case KindNotFound:
		return "NotFoundError"
	case KindEmptyInput:
		return "EmptyInputError"
	case KindShape:
		return "ShapeError"
	case KindValue:
		return "ValueError"
	case KindType:
		return "TypeError"
	case KindDegenerateColumn:
		return "DegenerateColumnError"
	default:
		return "InternalError"
	}
}

// Error is the single error type surfaced to callers. Match on kind with
// errors.Is(err, ErrShape) and friends.
type Error struct {
	Kind Kind
	Msg  string
	// Offending column names or values, when the kind has any.
	Details []string
	Cause   error
}

var (
	ErrFormat           = &Error{Kind: KindFormat}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrEmptyInput       = &Error{Kind: KindEmptyInput}
	ErrShape            = &Error{Kind: KindShape}
	ErrValue            = &Error{Kind: KindValue}
	ErrType             = &Error{Kind: KindType}
	ErrDegenerateColumn = &Error{Kind: KindDegenerateColumn}
	ErrInternal         = &Error{Kind: KindInternal}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Details) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Details, ", "))
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports kind equality so sentinels match any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string, details ...string) *Error {
	return &Error{Kind: kind, Msg: msg, Details: details}
}

// Internal wraps an unanticipated failure, preserving its message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Msg: "unexpected error", Cause: cause}
}

// FormatErrorf builds a FormatError.
func FormatErrorf(format string, args ...any) *Error {
	return newError(KindFormat, fmt.Sprintf(format, args...))
}

// NotFoundErrorf builds a NotFoundError.
func NotFoundErrorf(format string, args ...any) *Error {
	return newError(KindNotFound, fmt.Sprintf(format, args...))
}

// EmptyInputErrorf builds an EmptyInputError.
func EmptyInputErrorf(format string, args ...any) *Error {
	return newError(KindEmptyInput, fmt.Sprintf(format, args...))
}

// KindOf extracts the kind of err, falling back to KindInternal for foreign
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
