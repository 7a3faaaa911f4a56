package handler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glizzus/ckdtool/internal/ckd"
	"github.com/glizzus/ckdtool/internal/tool"
)

// Uncook decodes a container chosen by the user into a WAV next to it.
func (m *Menu) Uncook(ctx context.Context, log *slog.Logger) error {
	m.Console.Title("Uncook CKD -> WAV")
	ckdPath, err := AskPath(m.Prompter, "Drag or type the .wav.ckd file here")
	if err != nil {
		return err
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		describeContainer(ctx, log, ckdPath)
	}

	if _, err := m.Codecs.FindDecoder(); err != nil {
		return err
	}
	m.Console.Success("Converting %s -> %s", filepath.Base(ckdPath), filepath.Base(tool.UncookOutputPath(ckdPath)))
	wavPath, err := m.Codecs.Uncook(ctx, ckdPath)
	if err != nil {
		return err
	}

	m.Console.Success("Done! Created: %s", wavPath)
	return nil
}

// describeContainer logs the container's header fields. The decoder
// understands more layouts than ckd does, so failures here are not errors.
func describeContainer(ctx context.Context, log *slog.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.DebugContext(ctx, "could not read container", "path", path, "error", err)
		return
	}
	h, err := ckd.ReadHeader(data)
	if err != nil {
		log.DebugContext(ctx, "container header not recognised", "path", path, "error", err)
		return
	}
	log.DebugContext(ctx, "container header",
		"path", path,
		"headerSize", h.Size,
		"dataOffset", h.DataOffset,
		"chunkHeaderSize", h.ChunkHeaderSize,
		"audioSize", h.AudioSize,
	)
}
