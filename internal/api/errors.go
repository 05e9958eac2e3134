package api

import (
	"errors"
	"fmt"
)

// ErrAuthRequired reports a missing or expired session. A 401 from any
// endpoint maps to this sentinel so callers can distinguish "log in again"
// from ordinary failures.
var ErrAuthRequired = errors.New("session expired")

// ServerError is a non-2xx response that carried (or should have carried) a
// message payload.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// NetworkError wraps a request that never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports input rejected before any request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
