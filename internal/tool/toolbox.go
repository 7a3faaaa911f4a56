package tool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/glizzus/ckdtool/internal/config"
	"github.com/glizzus/ckdtool/internal/util"
)

// Toolbox finds and drives the decoder and encoder executables.
type Toolbox struct {
	Runner Runner

	// Decoder and Encoder are executable names looked up on the search path.
	Decoder string
	Encoder string

	// LookPath and Stat default to exec.LookPath and os.Stat.
	LookPath func(file string) (string, error)
	Stat     func(name string) (os.FileInfo, error)
}

// NewToolbox returns a Toolbox using the executables named in cfg.
func NewToolbox(cfg *config.ToolsConfig, runner Runner) *Toolbox {
	return &Toolbox{
		Runner:   runner,
		Decoder:  cfg.Decoder,
		Encoder:  cfg.Encoder,
		LookPath: exec.LookPath,
		Stat:     os.Stat,
	}
}

// Find resolves name on the search path, also trying name with ".exe".
func (t *Toolbox) Find(name string) (string, error) {
	for _, candidate := range []string{name, name + ".exe"} {
		if path, err := t.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", &NotFoundError{Name: name}
}

// UncookOutputPath returns where a decoded WAV for ckdPath is written:
// the same path with its last extension replaced by ".wav".
func UncookOutputPath(ckdPath string) string {
	return strings.TrimSuffix(ckdPath, filepath.Ext(ckdPath)) + ".wav"
}

// FindDecoder resolves the configured decoder.
func (t *Toolbox) FindDecoder() (string, error) {
	return t.Find(t.Decoder)
}

// Uncook decodes the container at ckdPath to a PCM WAV and returns its path.
func (t *Toolbox) Uncook(ctx context.Context, ckdPath string) (string, error) {
	exe, err := t.FindDecoder()
	if err != nil {
		return "", err
	}

	wavPath := UncookOutputPath(ckdPath)
	slog.InfoContext(ctx, "decoding container", "input", ckdPath, "output", wavPath)
	if err := t.Runner.Run(ctx, exe, "-o", wavPath, ckdPath); err != nil {
		return "", err
	}
	return wavPath, nil
}

// EncodeXMA encodes the PCM WAV at wavPath and returns the path of the file
// the encoder produced.
func (t *Toolbox) EncodeXMA(ctx context.Context, wavPath string) (string, error) {
	exe, err := t.Find(t.Encoder)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(wavPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", wavPath, err)
	}

	slog.InfoContext(ctx, "encoding to XMA", "input", abs)
	if err := t.Runner.Run(ctx, exe, abs); err != nil {
		return "", err
	}

	candidates := OutputCandidates(abs)
	out, ok := FindOutput(candidates, t.isFile)
	if !ok {
		return "", &OutputNotFoundError{Tool: t.Encoder, Candidates: candidates}
	}
	slog.InfoContext(ctx, "found encoded XMA file", "path", out)
	return out, nil
}

func (t *Toolbox) isFile(path string) bool {
	info, err := t.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// OutputCandidates lists, in order of preference, the files the XMA encoder
// may have written for the input at wavPath.
func OutputCandidates(wavPath string) []string {
	dir := filepath.Dir(wavPath)
	base := filepath.Base(wavPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return []string{
		filepath.Join(dir, stem+".xma"),
		filepath.Join(dir, stem+".xma2"),
		filepath.Join(dir, stem+"_xma2.wav"),
		filepath.Join(dir, stem+"_xma.wav"),
	}
}

// FindOutput returns the first candidate for which exists reports true.
func FindOutput(candidates []string, exists func(string) bool) (string, bool) {
	return util.FindFirst(candidates, exists)
}
