package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	base := errors.New("base")

	assert.Equal(t, ExitCodeSuccess, ExitCode(nil))
	assert.Equal(t, ExitCodeUsage, ExitCode(NewUsageError("bad flag %q", "--x")))
	assert.Equal(t, ExitCodeUsage, ExitCode(fmt.Errorf("wrapped: %w", &UsageError{Err: base})))
	assert.Equal(t, ExitCodeError, ExitCode(&SubModeError{Mode: "export-contacts", Err: base}))
	assert.Equal(t, ExitCodeError, ExitCode(&InitializationError{Stage: "backend", Err: base}))
	assert.Equal(t, ExitCodeError, ExitCode(base))
}

func TestErrorChains(t *testing.T) {
	base := errors.New("permission denied")
	err := &InitializationError{
		Stage: "wallet directory",
		Err:   &DirectoryError{Path: "/w", Err: base},
	}

	assert.ErrorIs(t, err, base)
	var dirErr *DirectoryError
	assert.ErrorAs(t, err, &dirErr)
	assert.Equal(t, "/w", dirErr.Path)
	assert.Equal(t, "initialization failed (wallet directory): could not create directory /w: permission denied", err.Error())
}
