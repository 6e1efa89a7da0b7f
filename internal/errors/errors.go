package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid spec, bad path, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the override engine's failure taxonomy.
var (
	// ErrPathNotFound indicates a state/transition/detail path is absent
	// from the model document.
	ErrPathNotFound = errors.New("transition path not found")

	// ErrMalformedShorthand indicates a target shorthand string could not
	// be parsed as STATE->TRANSITION or STATE->TRANSITION@DETAIL.
	ErrMalformedShorthand = errors.New("malformed target shorthand")

	// ErrConflictingTargets indicates an override supplied both target and targets.
	ErrConflictingTargets = errors.New("override cannot include both target and targets")

	// ErrAmbiguousOverride indicates an override mixed targets with bare
	// state/transition fields at the outer level.
	ErrAmbiguousOverride = errors.New("ambiguous override shape")

	// ErrCohortConversionRefused indicates an attempted implicit conversion
	// of a simple shock into a cohort shock without convert_cohort.
	ErrCohortConversionRefused = errors.New("refusing to convert simple shock to cohort shock")

	// ErrCohortNotFound indicates a referenced cohort is absent and
	// add_cohort was not set.
	ErrCohortNotFound = errors.New("cohort not found")

	// ErrSimpleOverCohort indicates an attempted simple-shock write onto a
	// cohort-shaped node. No override flag permits this.
	ErrSimpleOverCohort = errors.New("refusing to overwrite cohort shock with simple shock")

	// ErrUnrecognizedVersion indicates a version string does not match
	// [v]MAJOR.MINOR.[v]PATCH[.[v]EXTRA].
	ErrUnrecognizedVersion = errors.New("unrecognized version format")

	// ErrEmptySpec indicates spec resolution produced no usable overrides.
	ErrEmptySpec = errors.New("spec contains no overrides")

	// ErrMissingReports indicates the tracking summary found no matching
	// report rows for a dealtype.
	ErrMissingReports = errors.New("missing tracking reports")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI use.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
