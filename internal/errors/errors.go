// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNoSymbol         = errors.New("note has no symbol")
	ErrNoteNotFound     = errors.New("note not found")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrParserNotReady   = errors.New("parser not configured")
	ErrStoreUnavailable = errors.New("note store unavailable")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrEmptyInput       = errors.New("empty input")
)

// StoreError represents an error from the note store.
type StoreError struct {
	Op     string
	NoteID string
	Err    error
}

func (e *StoreError) Error() string {
	if e.NoteID != "" {
		return fmt.Sprintf("store error [%s] note %s: %v", e.Op, e.NoteID, e.Err)
	}
	return fmt.Sprintf("store error [%s]: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, noteID string, err error) *StoreError {
	return &StoreError{Op: op, NoteID: noteID, Err: err}
}

// QuoteError represents a failure fetching price data for a symbol.
type QuoteError struct {
	Symbol string
	Err    error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("quote error [%s]: %v", e.Symbol, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// NewQuoteError creates a new QuoteError.
func NewQuoteError(symbol string, err error) *QuoteError {
	return &QuoteError{Symbol: symbol, Err: err}
}

// ParseError represents a failure extracting structured data from note text.
type ParseError struct {
	Stage   string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error [%s]: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error [%s]: %s", e.Stage, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(stage, message string, err error) *ParseError {
	return &ParseError{Stage: stage, Message: message, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
