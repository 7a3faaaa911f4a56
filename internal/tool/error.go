package tool

import (
	"fmt"
	"strings"
)

// NotFoundError indicates that a required executable is not on the search path.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found on PATH, make sure you can run '%s' from a terminal", e.Name, e.Name)
}

var _ error = (*NotFoundError)(nil)

// InvocationError indicates that an external executable exited unsuccessfully.
type InvocationError struct {
	Tool     string
	Args     []string
	ExitCode int
	// Output holds what the tool wrote to stderr.
	Output string
	Err    error
}

func (e *InvocationError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

var _ error = (*InvocationError)(nil)

// OutputNotFoundError indicates that a tool ran successfully but none of the
// files it was expected to produce exist.
type OutputNotFoundError struct {
	Tool       string
	Candidates []string
}

func (e *OutputNotFoundError) Error() string {
	return fmt.Sprintf("%s ran, but no output file was found (looked for %s)", e.Tool, strings.Join(e.Candidates, ", "))
}

var _ error = (*OutputNotFoundError)(nil)
