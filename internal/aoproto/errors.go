// Package aoproto implements the AO-style wire codec and command schema:
// the closed set of client/server command variants, their wire derivation
// (ident/extract_args/from_protocol/handle), and the framing codec that
// turns a byte stream into a sequence of typed commands.
package aoproto

import (
	"errors"
	"fmt"
)

// Kind classifies protocol errors into the taxonomy of spec §7.
type Kind int

const (
	// KindFraming covers malformed or oversized frames.
	KindFraming Kind = iota
	// KindUnknownCode covers a wire code with no matching variant.
	KindUnknownCode
	// KindArity covers too few or too many arguments for a variant.
	KindArity
	// KindParse covers a field that failed its scalar string-codec.
	KindParse
	// KindHandler covers an error returned by a handler method.
	KindHandler
	// KindAdmission covers registry admission failures (full server, persistence).
	KindAdmission
	// KindTimeout is the distinguished idle-timeout error.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindFraming:
		return "framing"
	case KindUnknownCode:
		return "unknown_code"
	case KindArity:
		return "arity"
	case KindParse:
		return "parse"
	case KindHandler:
		return "handler"
	case KindAdmission:
		return "admission"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the single unified error type that crosses the codec/handler
// boundary into the session loop, replacing the reference source's
// anyhow::Error with a sum type carrying a Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &aoproto.Error{Kind: aoproto.KindTimeout}).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NewError builds an *Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// WrapError builds an *Error of the given kind, wrapping an underlying error.
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// ErrTimeout is the distinguished sentinel for idle-timeout disconnects.
var ErrTimeout = &Error{Kind: KindTimeout, Msg: "client disconnected because of timeout"}

// ErrDisconnected signals a clean stream end (EOF) with no pending error.
var ErrDisconnected = &Error{Kind: KindFraming, Msg: "client disconnected"}
