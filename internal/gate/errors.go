package gate

import (
	"errors"
	"fmt"
)

// Reason tags why a request was rejected. The full reason is kept for
// logs, audit, and metrics; handlers flatten it to generic wording at
// the response boundary so callers cannot tell "malformed input" from
// "no such report" from "wrong credential".
type Reason int

const (
	ReasonNotFound Reason = iota
	ReasonThrottled
	ReasonUnauthorized
	ReasonBadCredential
	ReasonTransient
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "not_found"
	case ReasonThrottled:
		return "throttled"
	case ReasonUnauthorized:
		return "unauthorized"
	case ReasonBadCredential:
		return "bad_credential"
	case ReasonTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a rejection with its real reason attached.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func reject(reason Reason, err error) *Error {
	return &Error{Reason: reason, Err: err}
}

// ReasonOf extracts the rejection reason from an error chain. Unknown
// errors read as transient, the safest mapping at the boundary.
func ReasonOf(err error) Reason {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Reason
	}
	return ReasonTransient
}
