package errors

import "fmt"

// InternalError marks programmer/config mistakes that must terminate the
// run immediately, such as requesting a report/format pairing no writer
// implements.
type InternalError struct {
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Detail)
}

// NewInternalError creates an InternalError with a formatted detail string.
func NewInternalError(format string, args ...interface{}) error {
	return &InternalError{Detail: fmt.Sprintf(format, args...)}
}

// CommandError represents a failed command invocation, carrying the exit
// code the process should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the underlying message.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError wraps err with the exit code for the command result.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}
