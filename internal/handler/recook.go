package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/glizzus/ckdtool/internal/ckd"
	"github.com/glizzus/ckdtool/internal/datalayer"
	"github.com/glizzus/ckdtool/internal/presenters"
)

// Recook builds a new container from a template container and an edited
// WAV, writing it to the output directory.
func (m *Menu) Recook(ctx context.Context, log *slog.Logger) error {
	m.Console.Title("Recook CKD (template CKD + edited WAV -> new CKD)")
	templatePath, err := AskPath(m.Prompter, "Drag or type the ORIGINAL .wav.ckd (template) here")
	if err != nil {
		return err
	}
	editedPath, err := AskPath(m.Prompter, "Drag or type your EDITED .wav (48kHz PCM) here")
	if err != nil {
		return err
	}
	outName, err := m.askOutputName()
	if err != nil {
		return err
	}
	outPath := filepath.Join(m.OutputDir, outName)

	xmaPath, err := m.Codecs.EncodeXMA(ctx, editedPath)
	if err != nil {
		return err
	}
	m.Console.Success("Found encoded XMA file: %s", filepath.Base(xmaPath))

	payload, riff, err := readPayload(xmaPath)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "extracted XMA payload", "path", xmaPath, "riff", riff, "bytes", len(payload))

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	patch, err := ckd.PatchHeader(template, payload)
	if err != nil {
		return fmt.Errorf("failed to recook %s: %w", filepath.Base(templatePath), err)
	}
	for _, line := range presenters.PatchSummary(patch) {
		m.Console.Success("%s", line)
	}
	if patch.Header.SizeMismatch() {
		log.WarnContext(ctx, "header size mismatch",
			"headerSize", patch.Header.Size,
			"chunkHeaderSize", patch.Header.ChunkHeaderSize,
		)
		m.Console.Warn("Header size from 'data' chunk is 0x%X, expected 0x%X; continuing anyway.",
			patch.Header.ChunkHeaderSize, patch.Header.Size)
	}

	m.Console.Success("Attempting to write CKD to: %s", outPath)
	if err := datalayer.WriteContainer(ctx, outPath, patch.Container); err != nil {
		return err
	}
	m.Console.Success("Wrote recooked CKD: %s", outPath)

	m.archive(ctx, log, outName, patch.Container)
	return nil
}

func (m *Menu) askOutputName() (string, error) {
	raw, err := m.Prompter.Ask("Output CKD name (e.g. seven_mod.wav.ckd)")
	if err != nil {
		return "", err
	}
	name := CleanInput(raw)
	if name == "" {
		return "", &UserError{Message: "No output name given."}
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", &UserError{Message: "Output name must be a file name, not a path."}
	}
	return name, nil
}

// readPayload returns the XMA payload in the encoder output at xmaPath and
// whether it came wrapped in a RIFF file.
func readPayload(xmaPath string) ([]byte, bool, error) {
	encoded, err := os.ReadFile(xmaPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read encoder output %s: %w", xmaPath, err)
	}
	payload, err := ckd.ExtractPayload(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("failed to extract payload from %s: %w", filepath.Base(xmaPath), err)
	}
	return payload, ckd.IsRIFF(encoded), nil
}

func (m *Menu) archive(ctx context.Context, log *slog.Logger, name string, container []byte) {
	if m.Archive == nil {
		return
	}
	key := datalayer.RecookedKey(name)
	err := m.Archive.Put(ctx, key, bytes.NewReader(container), datalayer.PutOptions{
		Size:        int64(len(container)),
		ContentType: datalayer.ContainerContentType,
	})
	if err != nil {
		log.WarnContext(ctx, "failed to archive recooked container", "key", key, "error", err)
		m.Console.Warn("Couldn't archive %s: %v", name, err)
		return
	}
	log.InfoContext(ctx, "archived recooked container", "key", key)
	m.Console.Success("Archived as %s", key)
}
