package ckd

import "fmt"

// FormatError reports a malformed or truncated binary structure.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("invalid container: %s", e.Reason)
	}
	return fmt.Sprintf("invalid container at offset 0x%X: %s", e.Offset, e.Reason)
}

var _ error = (*FormatError)(nil)

func formatErrorf(offset int, format string, args ...any) *FormatError {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
