package quality

import "errors"

var (
	// ErrValidation marks caller-supplied data that fails a constraint.
	// Callers must correct the input, never retry it as-is.
	ErrValidation = errors.New("quality check validation failed")

	// ErrDuplicate marks a submission for a (branch, chef, dish) triple that
	// already has a row inside the duplicate window. Not a system fault.
	ErrDuplicate = errors.New("duplicate quality check inside window")
)
