package api

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storekeeper/internal/common"
)

// ErrorKind classifies a failed API exchange for user messaging.
type ErrorKind string

const (
	// KindCredentials: the server rejected the credentials or token (4xx
	// from an auth-sensitive endpoint).
	KindCredentials ErrorKind = "credentials"
	// KindValidation: the server rejected the request body (4xx with a
	// structured detail).
	KindValidation ErrorKind = "validation"
	// KindServer: the server failed (5xx).
	KindServer ErrorKind = "server"
	// KindConnectivity: the request never reached the server. Best-effort
	// classification only; not correctness-critical.
	KindConnectivity ErrorKind = "connectivity"
	// KindUnexpected: a malformed or surprising response.
	KindUnexpected ErrorKind = "unexpected"
)

// Error describes a failed request to the REST API. Detail carries the
// server-provided "detail" text when the response included one.
type Error struct {
	Op     string
	Kind   ErrorKind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "api error"
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts an *Error from err, if there is one in the chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func connectivityError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindConnectivity, Err: fmt.Errorf("%w: %v", common.ErrorUnavailable, err)}
}
