package datalayer

import "fmt"

// PermissionError indicates that an output path could not be written even
// after its read-only bit was cleared.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied writing %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}

var _ error = (*PermissionError)(nil)
