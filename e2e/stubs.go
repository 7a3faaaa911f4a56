//go:build unix

package e2e

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/glizzus/ckdtool/internal/config"
	"github.com/glizzus/ckdtool/internal/generator"
	"github.com/glizzus/ckdtool/internal/handler"
	"github.com/glizzus/ckdtool/internal/presenters"
	"github.com/glizzus/ckdtool/internal/tool"
)

// XMAFixtureEnv names the file the stub encoder copies as its output.
const XMAFixtureEnv = "CKDTOOL_E2E_XMA_FIXTURE"

// Stub scripts standing in for the real codecs. The decoder copies its
// input to the requested output; the encoder copies a fixture next to its
// input under the "_xma2.wav" name.
const (
	decoderScript = "#!/bin/sh\n[ \"$1\" = \"-o\" ] || exit 64\ncp \"$3\" \"$2\"\n"
	encoderScript = "#!/bin/sh\ncp \"$" + XMAFixtureEnv + "\" \"${1%.wav}_xma2.wav\"\n"
	failingScript = "#!/bin/sh\necho \"cannot open stream\" >&2\nexit 2\n"
)

// Codecs selects which stub executables are installed on PATH.
type Codecs struct {
	Decoder        bool
	Encoder        bool
	FailingDecoder bool
}

// UseStubCodecs installs stub codecs in a fresh directory placed first on
// PATH for the duration of the test.
func UseStubCodecs(t *testing.T, codecs Codecs) {
	t.Helper()
	dir := t.TempDir()

	install := func(name, script string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatalf("failed to install stub %s: %v", name, err)
		}
	}
	switch {
	case codecs.FailingDecoder:
		install("vgmstream-cli", failingScript)
	case codecs.Decoder:
		install("vgmstream-cli", decoderScript)
	}
	if codecs.Encoder {
		install("xma2encode", encoderScript)
	}

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// UseXMAFixture writes a RIFF-wrapped XMA payload for the stub encoder to emit.
func UseXMAFixture(t *testing.T, payload []byte) {
	t.Helper()
	b := []byte("RIFF\x00\x00\x00\x00WAVEfmt \x00\x00\x00\x00data")
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	b = append(b, payload...)

	path := filepath.Join(t.TempDir(), "fixture.xma")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("failed to write XMA fixture: %v", err)
	}
	t.Setenv(XMAFixtureEnv, path)
}

// WriteContainer writes a container with a 0x30 byte header, the "data" tag
// at 0x24 and audioSize bytes of audio, returning its path.
func WriteContainer(t *testing.T, dir string, audioSize int) string {
	t.Helper()
	b := make([]byte, 0x30+audioSize)
	copy(b, "CKD\x00")
	binary.BigEndian.PutUint32(b[0x14:0x18], 0x30)
	copy(b[0x24:], "data")
	binary.BigEndian.PutUint32(b[0x28:0x2C], 0x30)
	binary.BigEndian.PutUint32(b[0x2C:0x30], uint32(audioSize))

	path := filepath.Join(dir, "seven.wav.ckd")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("failed to write container: %v", err)
	}
	return path
}

// ScriptedPrompter replays menu choices and text answers, aborting once
// either runs out.
type ScriptedPrompter struct {
	Choices []int
	Answers []string
}

func (p *ScriptedPrompter) Choose(string, []string) (int, error) {
	if len(p.Choices) == 0 {
		return -1, handler.ErrAborted
	}
	c := p.Choices[0]
	p.Choices = p.Choices[1:]
	return c, nil
}

func (p *ScriptedPrompter) Ask(string) (string, error) {
	if len(p.Answers) == 0 {
		return "", handler.ErrAborted
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, nil
}

// NewMenu wires a menu the way the binary does, but with scripted input,
// console output captured in out and recooks written to outputDir.
func NewMenu(t *testing.T, prompter handler.Prompter, out *bytes.Buffer, outputDir string) *handler.Menu {
	t.Helper()
	toolsConfig, err := config.NewToolsConfigFromEnv()
	if err != nil {
		t.Fatalf("failed to load tools config: %v", err)
	}

	return &handler.Menu{
		Prompter:  prompter,
		Console:   presenters.NewConsole(out),
		Codecs:    tool.NewToolbox(toolsConfig, &tool.ExecRunner{Stdout: io.Discard, Stderr: io.Discard}),
		OutputDir: outputDir,
		RunIDs:    &generator.UUIDV4Generator{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
