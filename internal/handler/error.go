package handler

import (
	"errors"
	"fmt"
)

// ErrAborted is returned by a Prompter when the user cancels input
// (Ctrl-C or end of input).
var ErrAborted = errors.New("input aborted")

// PathNotFoundError indicates that a user-supplied path is not a file.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

var _ error = (*PathNotFoundError)(nil)

// UserError is an error type that is used to represent
// an error that should be displayed to the user.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

var _ error = (*UserError)(nil)
