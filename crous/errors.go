package crous

import (
	"errors"
	"fmt"
)

// ============================================================
// Error Taxonomy
// ============================================================

// Sentinel errors for the failure classes shared by the text parser and the
// FLUX binary codec. Callers branch with errors.Is; the concrete error types
// below carry the position detail.
var (
	// ErrSyntax reports malformed text input.
	ErrSyntax = errors.New("crous: syntax error")

	// ErrDecode reports input that is lexically or structurally well formed
	// but semantically invalid: numeric literals out of range, bad escape
	// sequences, corrupt binary payloads.
	ErrDecode = errors.New("crous: decode error")

	// ErrInvalidType reports an operation applied to a value of the wrong
	// kind, such as appending to an int or reading a string as a bool.
	ErrInvalidType = errors.New("crous: invalid type")

	// ErrDepthExceeded reports input or a value tree nested deeper than the
	// configured maximum.
	ErrDepthExceeded = errors.New("crous: depth limit exceeded")
)

// Position is a location in text input, with 1-based line and column and a
// 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError is the error type returned by the lexer and parser. Err is one
// of the sentinel errors above and Pos points at the offending token.
type ParseError struct {
	Err error
	Pos Position
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Err, e.Pos, e.Msg)
}

// Unwrap returns the sentinel class of the error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeError is the error type returned by the FLUX binary decoder. Offset
// is the byte offset into the input at which decoding failed.
type DecodeError struct {
	Err    error
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Err, e.Offset, e.Msg)
}

// Unwrap returns the sentinel class of the error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newParseError(class error, pos Position, format string, args ...any) *ParseError {
	return &ParseError{Err: class, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func newDecodeError(class error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Err: class, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
