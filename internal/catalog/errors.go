package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a catalog failure.
type Kind string

const (
	KindNetwork Kind = "network"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
	KindGraphQL Kind = "graphql"
)

// Error is returned by every catalog call.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the call could succeed. Nothing in
// this package retries on its own.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetwork:
		return true
	case KindStatus:
		return e.Status == http.StatusTooManyRequests || e.Status >= 500
	default:
		return false
	}
}

// IsKind reports whether err is a catalog *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var catErr *Error
	return errors.As(err, &catErr) && catErr.Kind == kind
}

// IsRetryable reports whether err is a catalog *Error worth repeating.
func IsRetryable(err error) bool {
	var catErr *Error
	return errors.As(err, &catErr) && catErr.Retryable()
}
