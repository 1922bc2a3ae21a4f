package types

import (
	"errors"
	"fmt"
)

// Exit codes returned by the launcher.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
)

// UsageError reports bad or conflicting command line arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage: %v", e.Err)
}

func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError formats a UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// DirectoryError reports a directory that could not be created.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("could not create directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// InitializationError is fatal: nothing may run after it.
type InitializationError struct {
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialization failed (%s): %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// SubModeError reports a failed CLI batch operation.
type SubModeError struct {
	Mode string
	Err  error
}

func (e *SubModeError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Mode, e.Err)
}

func (e *SubModeError) Unwrap() error { return e.Err }

// ExitCode maps an error returned during startup to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitCodeUsage
	}

	return ExitCodeError
}
