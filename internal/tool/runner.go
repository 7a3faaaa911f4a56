package tool

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
)

// Runner runs an executable to completion.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs executables with os/exec. The tool's own output is
// forwarded to Stdout and Stderr so the user sees its diagnostics.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*ExecRunner)(nil)

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	var errBuf bytes.Buffer
	cmd.Stdout = orDiscard(r.Stdout)
	cmd.Stderr = io.MultiWriter(orDiscard(r.Stderr), &errBuf)

	slog.DebugContext(ctx, "running external tool", "tool", name, "args", args)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &InvocationError{
			Tool:     filepath.Base(name),
			Args:     args,
			ExitCode: exitCode,
			Output:   strings.TrimSpace(errBuf.String()),
			Err:      err,
		}
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
