// Package errors holds pingboard's user-facing failures. Each one names
// what broke, keeps the underlying cause, and says what to try next.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Codes group failures by the part of pingboard that raised them.
const (
	ErrConfig  = "CONFIG"  // config file, environment or flag values
	ErrProbe   = "PROBE"   // a measurement couldn't be set up
	ErrSink    = "SINK"    // the display refused an update
	ErrStartup = "STARTUP" // the monitor or panel couldn't start
)

// Error is a failure meant for a person at a terminal. It prints as
//
//	✗ Can't open an ICMP socket
//
//	  listen ip4:icmp 0.0.0.0: socket: operation not permitted
//
//	  Run with elevated privileges or use --method tcp
//
// with the cause and suggestion paragraphs left out when empty.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New returns an Error with no underlying cause.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap files err under ErrProbe, where most wrapped socket errors come from.
func Wrap(err error, message string) *Error {
	return WrapWithCode(err, ErrProbe, message, "")
}

// WrapWithCode attaches a code, message and suggestion to err.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✗ %s\n", e.Message)
	for _, para := range []string{e.cause(), e.Suggestion} {
		if para != "" {
			fmt.Fprintf(&b, "\n  %s\n", para)
		}
	}
	return b.String()
}

func (e *Error) cause() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) string {
	var pbErr *Error
	if errors.As(err, &pbErr) {
		return pbErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	c := CodeOf(err)
	return c != "" && c == code
}
