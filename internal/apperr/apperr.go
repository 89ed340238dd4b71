// Package apperr defines the application's closed error taxonomy and its
// mapping to transport status codes. Every operation boundary returns one of
// these kinds; callers match with errors.As / apperr.KindOf.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind enumerates the error categories an operation can return.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation: malformed or duplicate input.
	KindValidation
	// KindAuthentication: bad credentials or an invalid/expired session.
	// Deliberately does not distinguish "absent" from "expired".
	KindAuthentication
	// KindAuthorization: caller is not a member or lacks privilege.
	KindAuthorization
	KindNotFound
	// KindState: the target is in a state that forbids the operation
	// (locked channel, locked thread).
	KindState
	// KindCrypto: key, nonce, decode or tag-verification failure.
	KindCrypto
	// KindDependency: the durable store or the relay is unreachable or
	// rejected the call.
	KindDependency
	// KindPartial: a multi-step operation partially committed.
	KindPartial
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	case KindState:
		return "state"
	case KindCrypto:
		return "crypto"
	case KindDependency:
		return "dependency"
	case KindPartial:
		return "partial failure"
	default:
		return "internal"
	}
}

// Error is the single concrete error type crossing service boundaries.
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

// New builds an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap attaches a cause; the cause stays reachable through errors.Is/As.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

func Validation(msg string) *Error     { return New(KindValidation, msg) }
func Authentication(msg string) *Error { return New(KindAuthentication, msg) }
func Authorization(msg string) *Error  { return New(KindAuthorization, msg) }
func NotFound(msg string) *Error       { return New(KindNotFound, msg) }
func State(msg string) *Error          { return New(KindState, msg) }
func Crypto(msg string, err error) *Error {
	return Wrap(KindCrypto, msg, err)
}
func Dependency(msg string, err error) *Error {
	return Wrap(KindDependency, msg, err)
}
func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// KindOf extracts the kind from any error in the chain.
// Unrecognized errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var p *Partial
	if errors.As(err, &p) {
		return KindPartial
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Partial reports a multi-step operation where some sub-steps failed after
// others had already committed. Failed lists the identifiers of the failed
// sub-steps (participant ids for channel-creation invites). The committed
// part of the result is real and usable; callers surface Failed instead of
// rolling back.
type Partial struct {
	Msg    string
	Failed []string
}

func (e *Partial) Error() string {
	return fmt.Sprintf("partial failure: %s: failed for %s", e.Msg, strings.Join(e.Failed, ", "))
}

// HTTPStatus maps an error to the transport status code for the HTTP layer.
// Partial failures are not mapped here: handlers report them in a success
// body because the primary resource was created.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindState:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
