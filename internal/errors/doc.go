// Package errors provides error handling conventions for the dialctl CLI.
//
// This package defines sentinel errors for the override engine's failure
// taxonomy, an ExitError type for CLI exit code handling, and exit code
// constants following standard Unix conventions.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific failure conditions
// using [errors.Is]:
//
//	if errors.Is(err, dialerrors.ErrPathNotFound) {
//	    // the override addressed a path the document does not have
//	}
//
// Every sentinel corresponds to a hard stop: the engine fails fast rather
// than silently repairing a malformed override or converting a shock shape
// without authorization.
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion for CLI applications. It supports error unwrapping via
// [errors.Unwrap] and [errors.As]:
//
//	err := dialerrors.NewUserError(dialerrors.ErrEmptySpec, "Add overrides to the spec file")
//	var exitErr *dialerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
