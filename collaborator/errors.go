package collaborator

import (
	"context"
	"errors"
	"fmt"
)

type ErrorClass string

const TRANSIENT ErrorClass = "TRANSIENT"
const PERMANENT ErrorClass = "PERMANENT"
const CONFLICT ErrorClass = "CONFLICT"
const TIMEOUT ErrorClass = "TIMEOUT"

// ClassifiedError carries the retry class a collaborator assigned to a
// failure. Adapters retry TRANSIENT and TIMEOUT, surface CONFLICT for
// re-planning, and fail immediately on PERMANENT.
type ClassifiedError struct {
	Class ErrorClass
	Cause error
}

func (e ClassifiedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Class, e.Cause)
}

func (e ClassifiedError) Unwrap() error {
	return e.Cause
}

func Transient(err error) error {
	return ClassifiedError{Class: TRANSIENT, Cause: err}
}

func Permanent(err error) error {
	return ClassifiedError{Class: PERMANENT, Cause: err}
}

func Conflict(err error) error {
	return ClassifiedError{Class: CONFLICT, Cause: err}
}

// Classify maps any error to its retry class. Unclassified failures are
// treated as transient; deadline expiry is a timeout.
func Classify(err error) ErrorClass {
	var ce ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return TIMEOUT
	}
	return TRANSIENT
}
