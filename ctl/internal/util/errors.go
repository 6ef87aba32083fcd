package util

import "errors"

// Exit statuses the tool finishes with. Anything that returns an error not
// carrying an explicit status exits with GeneralError.
const (
	Success        = 0
	GeneralError   = 1
	PartialSuccess = 2
)

// CtlError couples an error with the exit status the process should finish
// with, so commands can signal partial success without special casing in
// main.
type CtlError struct {
	Err  error
	Code int
}

func NewCtlError(err error, code int) *CtlError {
	return &CtlError{Err: err, Code: code}
}

func (e *CtlError) Error() string {
	return e.Err.Error()
}

func (e *CtlError) Unwrap() error {
	return e.Err
}

// ExitCode returns the status carried by err, GeneralError for any other
// error, or Success for nil.
func ExitCode(err error) int {
	if err == nil {
		return Success
	}
	var ctlErr *CtlError
	if errors.As(err, &ctlErr) {
		return ctlErr.Code
	}
	return GeneralError
}
