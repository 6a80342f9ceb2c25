// Package joyerrors defines the error kinds carried across every phase of
// the pipeline (lex/parse, compile, execute, CSV I/O) so the CLI boundary
// can print a single, kind-tagged message regardless of which phase failed.
package joyerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind distinguishes the five error categories from the error handling design.
type Kind int

const (
	// KindLex is folded into KindParse at the public boundary: the lexer
	// drops error tokens rather than surfacing them itself (see the parser
	// package for where this manifests as a ParseError instead).
	KindLex Kind = iota
	KindParse
	KindCompile
	KindRuntime
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindCompile:
		return "compile error"
	case KindRuntime:
		return "runtime error"
	case KindIO:
		return "io error"
	default:
		return "error"
	}
}

// JoyError is the error type every package in this module returns. Line and
// Column are only meaningful for KindParse (and the folded-in KindLex) and
// are zero otherwise.
type JoyError struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	cause   error
}

func (e *JoyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As keep working
// through a JoyError the way they would through a pkg/errors-wrapped one.
func (e *JoyError) Unwrap() error {
	return e.cause
}

// Format supports "%+v" the way github.com/pkg/errors values do, printing
// the full cause chain when --debug is set at the CLI boundary.
func (e *JoyError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s", e.Error())
			if e.cause != nil {
				fmt.Fprintf(s, "\n%+v", e.cause)
			}
			return
		}
		fmt.Fprintf(s, "%s", e.Error())
	default:
		fmt.Fprintf(s, "%s", e.Error())
	}
}

// Parse builds a KindParse error with source position, wrapping cause if
// one is given (cause may be nil for a bare grammar mismatch).
func Parse(line, column int, message string, cause error) error {
	return &JoyError{Kind: KindParse, Message: message, Line: line, Column: column, cause: wrapCause(cause, message)}
}

// Compile builds a KindCompile error.
func Compile(message string, cause error) error {
	return &JoyError{Kind: KindCompile, Message: message, cause: wrapCause(cause, message)}
}

// Runtime builds a KindRuntime error.
func Runtime(message string, cause error) error {
	return &JoyError{Kind: KindRuntime, Message: message, cause: wrapCause(cause, message)}
}

// IO builds a KindIO error.
func IO(message string, cause error) error {
	return &JoyError{Kind: KindIO, Message: message, cause: wrapCause(cause, message)}
}

func wrapCause(cause error, message string) error {
	if cause == nil {
		return nil
	}
	return errors.Wrap(cause, message)
}

// As reports whether err is (or wraps) a *JoyError, the way callers at the
// CLI boundary check which kind they're formatting.
func As(err error) (*JoyError, bool) {
	var je *JoyError
	if errors.As(err, &je) {
		return je, true
	}
	return nil, false
}
