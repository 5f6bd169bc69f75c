package builder

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by FieldOps.Apply.
var (
	ErrNoDomain         = errors.New("no domain attached")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrUnknownField     = errors.New("unknown field")
	ErrArgCount         = errors.New("wrong number of arguments")
)

// InstantiationError reports that a query could not be created for a
// domain. It is never replaced by a default query.
type InstantiationError struct {
	// Domain is the requested domain name.
	Domain string

	// Reason is a human-readable description.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *InstantiationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot instantiate query for domain %q: %s: %v", e.Domain, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot instantiate query for domain %q: %s", e.Domain, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// IsInstantiationError returns true if the error is an InstantiationError.
// Uses errors.As to handle wrapped errors.
func IsInstantiationError(err error) bool {
	var ie *InstantiationError
	return errors.As(err, &ie)
}
