// Package errors provides sentinel errors and error types for the repertoire
// engine. It defines common error conditions and structured error types that
// preserve context while allowing error inspection with errors.Is() and
// errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrIllegalMove indicates a move that violates chess rules.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPlacement indicates a malformed FEN piece-placement field.
	ErrInvalidPlacement = errors.New("invalid board placement")

	// ErrInvalidSquare indicates a malformed square name.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvalidDisambiguation indicates disambiguation was requested for an
	// empty square or a king.
	ErrInvalidDisambiguation = errors.New("invalid disambiguation")

	// ErrNoTransition indicates two boards that do not differ by a single move.
	ErrNoTransition = errors.New("no move transition")

	// ErrUnknownNode indicates a node id or hash that is not in the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrRepertoireNotFound indicates a repertoire id missing from the store.
	ErrRepertoireNotFound = errors.New("repertoire not found")

	// ErrStoreSync indicates a move was applied locally but could not be
	// persisted.
	ErrStoreSync = errors.New("store sync failed")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidName indicates an empty repertoire name.
	ErrInvalidName = errors.New("invalid repertoire name")

	// ErrBadRequest indicates a request body that could not be decoded.
	ErrBadRequest = errors.New("malformed request")

	// ErrInvalidMovetext indicates PGN movetext that could not be read.
	ErrInvalidMovetext = errors.New("invalid movetext")
)

// MoveError wraps errors with move context: the ply of the position the move
// was attempted from and its origin and destination squares.
type MoveError struct {
	Err  error  // The underlying error
	Ply  int    // Ply of the parent position
	From string // Origin square, e.g. "e2"
	To   string // Destination square, e.g. "e4"
	Node string // Hash of the parent node (if known)
}

// Error returns a formatted error message including all available context.
func (e *MoveError) Error() string {
	var parts []string

	if e.Node != "" {
		parts = append(parts, fmt.Sprintf("node %.12s", e.Node))
	}
	parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	if e.From != "" || e.To != "" {
		parts = append(parts, fmt.Sprintf("move %s%s", e.From, e.To))
	}

	context := strings.Join(parts, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error, enabling errors.Is() and errors.As()
// to work through the MoveError wrapper.
func (e *MoveError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing error with input location context.
// It's used for board placements, square names and stored move records.
type ParseError struct {
	Err    error  // The underlying error
	Input  string // The text being parsed
	Offset int    // Byte offset of the problem (0 if not applicable)
	Got    string // What was found instead
}

// Error returns a formatted error message with location and context.
func (e *ParseError) Error() string {
	var parts []string

	if e.Input != "" {
		loc := fmt.Sprintf("%q", e.Input)
		if e.Offset > 0 {
			loc += fmt.Sprintf(" at offset %d", e.Offset)
		}
		parts = append(parts, loc)
	}
	if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %s", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "parse error"
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain matches target.
// It re-exports the standard library function so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error wrapping every non-nil err, or nil if there are none.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
