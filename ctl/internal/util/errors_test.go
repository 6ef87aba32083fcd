package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, Success, ExitCode(nil))
	assert.Equal(t, GeneralError, ExitCode(errors.New("boom")))

	partial := NewCtlError(errors.New("3 of 5 documents failed validation"), PartialSuccess)
	assert.Equal(t, PartialSuccess, ExitCode(partial))
	// The status survives wrapping.
	assert.Equal(t, PartialSuccess, ExitCode(fmt.Errorf("validate: %w", partial)))
}

func TestCtlErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewCtlError(fmt.Errorf("outer: %w", cause), PartialSuccess)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "outer: boom", err.Error())
}
