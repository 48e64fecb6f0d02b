// Package apperr defines the outcomes every academy operation can fail with
// and how they are reported over HTTP.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failure
type Kind int

const (
	// Internal is any failure that does not carry a more specific kind.
	Internal Kind = iota
	GatewayUnavailable
	LedgerQueryFailed
	MalformedLedgerData
	PermissionDenied
	InvalidInput
	NoChanges
	AlreadyRegistered
	SamePassword
	MismatchConfirmation
	AccountNotFound
	WrongPassword
	NotEnrolled
	Unauthenticated
)

var kinds = map[Kind]struct {
	code   string
	status int
}{
	Internal:             {"INTERNAL", http.StatusInternalServerError},
	GatewayUnavailable:   {"GATEWAY_UNAVAILABLE", http.StatusInternalServerError},
	LedgerQueryFailed:    {"LEDGER_QUERY_FAILED", http.StatusInternalServerError},
	MalformedLedgerData:  {"MALFORMED_LEDGER_DATA", http.StatusInternalServerError},
	PermissionDenied:     {"PERMISSION_DENIED", http.StatusForbidden},
	InvalidInput:         {"INVALID_INPUT", http.StatusUnprocessableEntity},
	NoChanges:            {"NO_CHANGES", http.StatusInternalServerError},
	AlreadyRegistered:    {"ALREADY_REGISTERED", http.StatusInternalServerError},
	SamePassword:         {"SAME_PASSWORD", http.StatusBadRequest},
	MismatchConfirmation: {"MISMATCH_CONFIRMATION", http.StatusBadRequest},
	AccountNotFound:      {"ACCOUNT_NOT_FOUND", http.StatusNotFound},
	WrongPassword:        {"WRONG_PASSWORD", http.StatusBadRequest},
	NotEnrolled:          {"NOT_ENROLLED", http.StatusBadRequest},
	Unauthenticated:      {"UNAUTHENTICATED", http.StatusUnauthorized},
}

// Code returns the stable machine-readable code of k.
func (k Kind) Code() string {
	if v, ok := kinds[k]; ok {
		return v.code
	}
	return kinds[Internal].code
}

// Status returns the HTTP status code k is reported with.
func (k Kind) Status() int {
	if v, ok := kinds[k]; ok {
		return v.status
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	return k.Code()
}

// Error is a classified failure. Msg is what the caller gets to see.
type Error struct {
	Kind  Kind
	Msg   string
	cause error
}

// New returns a classified failure with a client-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies cause. The cause is kept for logging and never shown to the client.
func Wrap(cause error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Msg + ": " + e.cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
