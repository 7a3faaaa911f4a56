package presenters

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/glizzus/ckdtool/internal/ckd"
	"github.com/glizzus/ckdtool/internal/datalayer"
	"github.com/glizzus/ckdtool/internal/tool"
)

// Size renders a byte count for humans, keeping the exact figure.
func Size(n uint64) string {
	return fmt.Sprintf("%s (%d bytes)", humanize.IBytes(n), n)
}

// PatchSummary describes a recook for the user.
func PatchSummary(p *ckd.Patch) []string {
	return []string{
		fmt.Sprintf("Header size: 0x%X (%d bytes)", p.Header.Size, p.Header.Size),
		fmt.Sprintf("Original audio size: %s", Size(uint64(p.Header.AudioSize))),
		fmt.Sprintf("New audio size: %s", Size(uint64(p.NewAudioSize))),
		fmt.Sprintf("New CKD total size: %s", Size(uint64(len(p.Container)))),
	}
}

// ErrorLines turns an error from the named action into lines for the user.
func ErrorLines(action string, err error) []string {
	var (
		permErr       *datalayer.PermissionError
		notFoundErr   *tool.NotFoundError
		invocationErr *tool.InvocationError
		outputErr     *tool.OutputNotFoundError
		formatErr     *ckd.FormatError
	)

	switch {
	case errors.As(err, &permErr):
		return []string{
			"Permission denied while writing CKD:",
			err.Error(),
			"Try running this tool from a normal folder (like Desktop or Documents)",
			"and avoid Program Files, mounted ISOs or read-only locations.",
		}
	case errors.As(err, &notFoundErr):
		return []string{err.Error()}
	case errors.As(err, &invocationErr):
		return []string{fmt.Sprintf("%s failed:", invocationErr.Tool), err.Error()}
	case errors.As(err, &outputErr):
		return []string{
			err.Error(),
			"Check which file the encoder created and add that name pattern.",
		}
	case errors.As(err, &formatErr):
		return []string{fmt.Sprintf("Malformed file during %s:", action), err.Error()}
	default:
		return []string{fmt.Sprintf("Error during %s:", action), err.Error()}
	}
}
