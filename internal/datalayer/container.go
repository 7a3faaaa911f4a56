package datalayer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// OutputDirName is the directory created next to the executable when no
// output directory is configured.
const OutputDirName = "output"

// OutputDir resolves and creates the directory recooked containers go to.
// An empty configured value means OutputDirName next to the running
// executable, or in the working directory if that cannot be determined.
func OutputDir(configured string) (string, error) {
	dir := configured
	if dir == "" {
		base, err := executableDir()
		if err != nil {
			slog.Warn("could not locate executable, using working directory", "error", err)
			if base, err = os.Getwd(); err != nil {
				return "", fmt.Errorf("failed to resolve working directory: %w", err)
			}
		}
		dir = filepath.Join(base, OutputDirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return dir, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// WriteContainer writes data to path. An existing regular file is made
// writable and removed first; failures doing so are logged and the write is
// attempted anyway. Anything else at path is left alone for the write to
// fail on. The replacement is not atomic.
func WriteContainer(ctx context.Context, path string, data []byte) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slog.InfoContext(ctx, "writing container", "path", path, "bytes", len(data))

	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if err := os.Chmod(path, info.Mode().Perm()|0o200); err != nil {
			slog.WarnContext(ctx, "couldn't adjust permissions on existing file", "path", path, "error", err)
		}
		if err := os.Remove(path); err != nil {
			slog.WarnContext(ctx, "couldn't delete existing file before overwrite", "path", path, "error", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &PermissionError{Path: path, Err: err}
		}
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
