package fcm

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks missing or invalid client setup.
	ErrConfiguration = errors.New("fcm: invalid configuration")
	// ErrUnsupportedCombination marks an intent that the API generation cannot serve.
	ErrUnsupportedCombination = errors.New("fcm: unsupported intent for api version")
	// ErrInvalidTarget marks an empty, unknown or conflicting message target.
	ErrInvalidTarget = errors.New("fcm: invalid target")
	// ErrInvalidData marks payload content the wire format cannot carry.
	ErrInvalidData = errors.New("fcm: invalid data")
	// ErrIncompleteBuild marks a build attempted before the required fields were set.
	ErrIncompleteBuild = errors.New("fcm: incomplete build")
	// ErrAuthorization marks credential material that could not be turned into a token.
	ErrAuthorization = errors.New("fcm: authorization failed")
	// ErrUnsupportedOperation marks a configuration call the request's intent does not accept.
	ErrUnsupportedOperation = errors.New("fcm: operation not supported for intent")
)

// UnsupportedCombinationError is returned by the selectors when no builder or
// parser exists for an (intent, generation) pair.
type UnsupportedCombinationError struct {
	Intent     Intent
	Generation APIGeneration
	// Valid lists the intents accepted by the selector, for diagnostics.
	Valid []Intent
}

func (e *UnsupportedCombinationError) Error() string {
	return fmt.Sprintf("fcm: intent %q is not supported by %q, intent must be in %v", e.Intent, e.Generation, e.Valid)
}

// Is lets errors.Is match the ErrUnsupportedCombination sentinel.
func (e *UnsupportedCombinationError) Is(target error) bool {
	return target == ErrUnsupportedCombination
}
