// Package apperr defines the error kinds a command handler can fail with and
// the wire status each kind is reported as.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a handler failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotLoggedIn
	KindInvalidRequest
	KindInsufficientItems
	KindInsufficientCurrency
	KindStorage
	KindCodec
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNotLoggedIn:
		return "NotLoggedIn"
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindInsufficientItems:
		return "InsufficientItems"
	case KindInsufficientCurrency:
		return "InsufficientCurrency"
	case KindStorage:
		return "Storage"
	case KindCodec:
		return "Codec"
	case KindCustom:
		return "Custom"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Status codes carried in the reply frame header. 0 is success.
const (
	StatusOK                   uint16 = 0
	StatusInternal             uint16 = 1
	StatusNotLoggedIn          uint16 = 2
	StatusInvalidRequest       uint16 = 3
	StatusInsufficientItems    uint16 = 4
	StatusInsufficientCurrency uint16 = 5
)

// Status returns the wire status for k.
func (k Kind) Status() uint16 {
	switch k {
	case KindNotLoggedIn:
		return StatusNotLoggedIn
	case KindInvalidRequest, KindCodec:
		return StatusInvalidRequest
	case KindInsufficientItems:
		return StatusInsufficientItems
	case KindInsufficientCurrency:
		return StatusInsufficientCurrency
	default:
		return StatusInternal
	}
}

// Error is a handler failure with a kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
		}
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so callers can write
// errors.Is(err, apperr.ErrInvalidRequest).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

var (
	ErrNotLoggedIn          = &Error{Kind: KindNotLoggedIn}
	ErrInvalidRequest       = &Error{Kind: KindInvalidRequest}
	ErrInsufficientItems    = &Error{Kind: KindInsufficientItems}
	ErrInsufficientCurrency = &Error{Kind: KindInsufficientCurrency}
)

// Invalid reports a request that refers to something that does not exist or
// cannot apply.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

// Storage wraps a storage failure with the operation that failed.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindStorage, Message: op, Cause: err}
}

// Codec wraps a request decode failure.
func Codec(err error) error {
	return &Error{Kind: KindCodec, Message: "decode request", Cause: err}
}

// Custom wraps err with a free-form context string.
func Custom(msg string, err error) error {
	return &Error{Kind: KindCustom, Message: msg, Cause: err}
}

// KindOf returns the kind of err, KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// StatusOf returns the wire status for err.
func StatusOf(err error) uint16 {
	return KindOf(err).Status()
}

// Fatal reports whether err should close the session rather than produce an
// error reply. Errors opt in by implementing Fatal() bool.
func Fatal(err error) bool {
	var f interface{ Fatal() bool }
	return errors.As(err, &f) && f.Fatal()
}
