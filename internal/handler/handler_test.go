package handler_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/glizzus/ckdtool/internal/datalayer"
	"github.com/glizzus/ckdtool/internal/generator"
	"github.com/glizzus/ckdtool/internal/handler"
	"github.com/glizzus/ckdtool/internal/presenters"
	"github.com/glizzus/ckdtool/internal/tool"
)

// scriptedPrompter answers prompts from fixed queues and aborts once a
// queue runs dry.
type scriptedPrompter struct {
	choices []int
	answers []string
}

func (p *scriptedPrompter) Choose(string, []string) (int, error) {
	if len(p.choices) == 0 {
		return -1, handler.ErrAborted
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func (p *scriptedPrompter) Ask(string) (string, error) {
	if len(p.answers) == 0 {
		return "", handler.ErrAborted
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

type fakeCodecs struct {
	decoderErr error
	uncooked   []string
	encoded  []string
	uncook   func(ckdPath string) (string, error)
	encode   func(wavPath string) (string, error)
}

func (c *fakeCodecs) FindDecoder() (string, error) {
	if c.decoderErr != nil {
		return "", c.decoderErr
	}
	return "vgmstream-cli", nil
}

func (c *fakeCodecs) Uncook(_ context.Context, ckdPath string) (string, error) {
	c.uncooked = append(c.uncooked, ckdPath)
	if c.uncook == nil {
		return tool.UncookOutputPath(ckdPath), nil
	}
	return c.uncook(ckdPath)
}

func (c *fakeCodecs) EncodeXMA(_ context.Context, wavPath string) (string, error) {
	c.encoded = append(c.encoded, wavPath)
	return c.encode(wavPath)
}

type fakeArchive struct {
	keys []string
	data [][]byte
	err  error
}

func (a *fakeArchive) Put(_ context.Context, key string, r io.Reader, _ datalayer.PutOptions) error {
	if a.err != nil {
		return a.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	a.keys = append(a.keys, key)
	a.data = append(a.data, b)
	return nil
}

// writeTemplate writes a container with a 0x2C byte header, its "data" tag
// at 0x20, and audioSize bytes of audio.
func writeTemplate(t *testing.T, dir string, chunkHeaderSize uint32, audioSize int) string {
	t.Helper()
	b := make([]byte, 0x2C+audioSize)
	binary.BigEndian.PutUint32(b[0x14:0x18], 0x2C)
	copy(b[0x20:], "data")
	binary.BigEndian.PutUint32(b[0x24:0x28], chunkHeaderSize)
	binary.BigEndian.PutUint32(b[0x28:0x2C], uint32(audioSize))
	path := filepath.Join(dir, "seven.wav.ckd")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// riffXMA wraps payload in a minimal RIFF file the way the encoder does.
func riffXMA(payload []byte) []byte {
	b := []byte("RIFF\x00\x00\x00\x00WAVEfmt \x00\x00\x00\x00data")
	b = binary.LittleEndian.AppendUint32(b, uint32(len(payload)))
	return append(b, payload...)
}

// encodeNextTo returns an encoder that writes out next to its input as
// <stem>_xma2.wav.
func encodeNextTo(t *testing.T, out []byte) func(string) (string, error) {
	return func(wavPath string) (string, error) {
		stem := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))
		return writeFile(t, stem+"_xma2.wav", out), nil
	}
}

type fixture struct {
	menu    *handler.Menu
	prompt  *scriptedPrompter
	codecs  *fakeCodecs
	archive *fakeArchive
	output  *bytes.Buffer
	outDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	color.NoColor = true

	f := &fixture{
		prompt:  &scriptedPrompter{},
		codecs:  &fakeCodecs{},
		archive: &fakeArchive{},
		output:  &bytes.Buffer{},
		outDir:  t.TempDir(),
	}
	f.menu = &handler.Menu{
		Prompter:  f.prompt,
		Console:   presenters.NewConsole(f.output),
		Codecs:    f.codecs,
		OutputDir: f.outDir,
		Archive:   f.archive,
		RunIDs:    &generator.SequenceGenerator{Prefix: "test"},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}

func TestRecook(t *testing.T) {
	f := newFixture(t)
	in := t.TempDir()
	template := writeTemplate(t, in, 0x2C, 1000)
	edited := writeFile(t, filepath.Join(in, "seven edit.wav"), []byte("RIFF pcm"))

	payload := bytes.Repeat([]byte{0xAB}, 1234)
	f.codecs.encode = encodeNextTo(t, riffXMA(payload))
	f.prompt.answers = []string{template, ` "` + edited + `" `, "seven_mod.wav.ckd"}

	if err := f.menu.Recook(t.Context(), slog.Default()); err != nil {
		t.Fatalf("Recook() returned error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(f.outDir, "seven_mod.wav.ckd"))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(got) != 0x2C+1234 {
		t.Fatalf("output length = %d, want %d", len(got), 0x2C+1234)
	}
	if size := binary.BigEndian.Uint32(got[0x28:0x2C]); size != 1234 {
		t.Errorf("audio size field = %d, want 1234", size)
	}
	if !bytes.Equal(got[0x2C:], payload) {
		t.Errorf("payload was not appended after the header")
	}

	if len(f.codecs.encoded) != 1 || f.codecs.encoded[0] != edited {
		t.Errorf("encoder called with %q, want [%q]", f.codecs.encoded, edited)
	}
	if len(f.archive.keys) != 1 || f.archive.keys[0] != "recooked/seven_mod.wav.ckd" {
		t.Errorf("archived keys = %q, want [recooked/seven_mod.wav.ckd]", f.archive.keys)
	} else if !bytes.Equal(f.archive.data[0], got) {
		t.Errorf("archived bytes differ from the written container")
	}
	if !strings.Contains(f.output.String(), "Wrote recooked CKD: ") {
		t.Errorf("output does not report the write:\n%s", f.output.String())
	}
	if strings.Contains(f.output.String(), "[!]") {
		t.Errorf("unexpected warning in output:\n%s", f.output.String())
	}
}

func TestRecookRawPayloadAndSizeMismatch(t *testing.T) {
	f := newFixture(t)
	f.menu.Archive = nil
	in := t.TempDir()
	template := writeTemplate(t, in, 0x30, 16)
	edited := writeFile(t, filepath.Join(in, "edit.wav"), []byte("pcm"))

	raw := []byte("raw xma bitstream")
	f.codecs.encode = func(wavPath string) (string, error) {
		return writeFile(t, strings.TrimSuffix(wavPath, ".wav")+".xma", raw), nil
	}
	f.prompt.answers = []string{template, edited, "out.wav.ckd"}

	if err := f.menu.Recook(t.Context(), slog.Default()); err != nil {
		t.Fatalf("Recook() returned error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(f.outDir, "out.wav.ckd"))
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.Equal(got[0x2C:], raw) {
		t.Errorf("raw payload was not appended verbatim")
	}
	if !strings.Contains(f.output.String(), "[!] Header size from 'data' chunk is 0x30, expected 0x2C") {
		t.Errorf("expected a size mismatch warning, got:\n%s", f.output.String())
	}
}

func TestRecookFailures(t *testing.T) {
	in := t.TempDir()
	template := writeTemplate(t, in, 0x2C, 8)
	broken := writeFile(t, filepath.Join(in, "broken.wav.ckd"), make([]byte, 0x40))
	edited := writeFile(t, filepath.Join(in, "edit.wav"), []byte("pcm"))

	tc := []struct {
		name    string
		answers []string
		encode  func(string) (string, error)
		check   func(t *testing.T, err error)
	}{
		{
			name:    "missing template",
			answers: []string{filepath.Join(in, "nope.wav.ckd")},
			check: func(t *testing.T, err error) {
				var notFound *handler.PathNotFoundError
				if !errors.As(err, &notFound) {
					t.Errorf("error = %v, want *handler.PathNotFoundError", err)
				}
			},
		},
		{
			name:    "empty output name",
			answers: []string{template, edited, `  ""  `},
			check: func(t *testing.T, err error) {
				var userErr *handler.UserError
				if !errors.As(err, &userErr) || userErr.Message != "No output name given." {
					t.Errorf("error = %v, want UserError about the output name", err)
				}
			},
		},
		{
			name:    "output name with a directory",
			answers: []string{template, edited, "../escape.wav.ckd"},
			check: func(t *testing.T, err error) {
				var userErr *handler.UserError
				if !errors.As(err, &userErr) {
					t.Errorf("error = %v, want *handler.UserError", err)
				}
			},
		},
		{
			name:    "encoder output missing",
			answers: []string{template, edited, "out.wav.ckd"},
			encode: func(string) (string, error) {
				return "", &tool.OutputNotFoundError{Tool: "xma2encode"}
			},
			check: func(t *testing.T, err error) {
				var outputErr *tool.OutputNotFoundError
				if !errors.As(err, &outputErr) {
					t.Errorf("error = %v, want *tool.OutputNotFoundError", err)
				}
			},
		},
		{
			name:    "template without data tag",
			answers: []string{broken, edited, "out.wav.ckd"},
			encode:  encodeNextTo(t, riffXMA([]byte{1, 2, 3})),
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "invalid container") {
					t.Errorf("error = %v, want a container format error", err)
				}
			},
		},
		{
			name:    "truncated encoder output",
			answers: []string{template, edited, "out.wav.ckd"},
			encode:  encodeNextTo(t, []byte("RIFF\x00\x00\x00\x00WAVEdata\xff\x00\x00\x00abc")),
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "goes past end of file") {
					t.Errorf("error = %v, want a truncated chunk error", err)
				}
			},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.prompt.answers = tt.answers
			f.codecs.encode = tt.encode
			if f.codecs.encode == nil {
				f.codecs.encode = func(string) (string, error) {
					t.Fatalf("encoder should not run")
					return "", nil
				}
			}

			err := f.menu.Recook(t.Context(), slog.Default())
			tt.check(t, err)

			entries, readErr := os.ReadDir(f.outDir)
			if readErr != nil {
				t.Fatalf("failed to read output dir: %v", readErr)
			}
			if len(entries) != 0 {
				t.Errorf("output directory should be empty after a failure, has %d entries", len(entries))
			}
			if len(f.archive.keys) != 0 {
				t.Errorf("nothing should be archived after a failure")
			}
		})
	}
}

func TestRecookArchiveFailureIsAWarning(t *testing.T) {
	f := newFixture(t)
	f.archive.err = errors.New("bucket unreachable")
	in := t.TempDir()
	template := writeTemplate(t, in, 0x2C, 4)
	edited := writeFile(t, filepath.Join(in, "edit.wav"), []byte("pcm"))
	f.codecs.encode = encodeNextTo(t, riffXMA([]byte("xma")))
	f.prompt.answers = []string{template, edited, "out.wav.ckd"}

	if err := f.menu.Recook(t.Context(), slog.Default()); err != nil {
		t.Fatalf("Recook() returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.outDir, "out.wav.ckd")); err != nil {
		t.Errorf("local output missing: %v", err)
	}
	if !strings.Contains(f.output.String(), "[!] Couldn't archive out.wav.ckd: bucket unreachable") {
		t.Errorf("expected archive warning, got:\n%s", f.output.String())
	}
}

func TestUncook(t *testing.T) {
	f := newFixture(t)
	ckdPath := writeTemplate(t, t.TempDir(), 0x2C, 8)
	f.prompt.answers = []string{`"` + ckdPath + `"`}

	if err := f.menu.Uncook(t.Context(), slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))); err != nil {
		t.Fatalf("Uncook() returned error: %v", err)
	}
	if len(f.codecs.uncooked) != 1 || f.codecs.uncooked[0] != ckdPath {
		t.Errorf("decoder called with %q, want [%q]", f.codecs.uncooked, ckdPath)
	}
	want := "[+] Done! Created: " + tool.UncookOutputPath(ckdPath)
	if !strings.Contains(f.output.String(), want) {
		t.Errorf("output missing %q:\n%s", want, f.output.String())
	}
}

func TestMenuRunSurvivesErrors(t *testing.T) {
	f := newFixture(t)
	ckdPath := writeTemplate(t, t.TempDir(), 0x2C, 8)
	f.codecs.decoderErr = &tool.NotFoundError{Name: "vgmstream-cli"}

	// recook with a bad path, an invalid choice, uncook without a decoder,
	// uncook cancelled at the prompt, then exit.
	f.prompt.choices = []int{1, 7, 0, 0, 2}
	f.prompt.answers = []string{"missing.wav.ckd", ckdPath}

	if err := f.menu.Run(t.Context()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	out := f.output.String()
	for _, want := range []string{
		"[-] File not found: missing.wav.ckd",
		"[-] Invalid choice, try again.",
		"[-] vgmstream-cli not found on PATH",
		"[!] Cancelled.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Converting") {
		t.Errorf("conversion announced without a decoder:\n%s", out)
	}
	if len(f.codecs.uncooked) != 0 {
		t.Errorf("decoder called with %q, want none", f.codecs.uncooked)
	}
	if got := strings.Count(out, "=== "+handler.MenuTitle+" ==="); got != 5 {
		t.Errorf("menu shown %d times, want 5", got)
	}
	if len(f.prompt.choices) != 0 {
		t.Errorf("menu stopped early with %d choices left", len(f.prompt.choices))
	}
}

func TestMenuRunAbortExits(t *testing.T) {
	f := newFixture(t)
	if err := f.menu.Run(t.Context()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
}

func TestAskPath(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "song name.wav.ckd"), []byte("x"))

	tc := []struct {
		name   string
		answer string
		want   string
		check  func(error) bool
	}{
		{name: "plain", answer: file, want: file},
		{name: "quoted with spaces", answer: "  \"" + file + "\"\n", want: file},
		{
			name:   "empty",
			answer: `   `,
			check: func(err error) bool {
				var userErr *handler.UserError
				return errors.As(err, &userErr)
			},
		},
		{
			name:   "directory",
			answer: dir,
			check: func(err error) bool {
				var notFound *handler.PathNotFoundError
				return errors.As(err, &notFound) && notFound.Path == dir
			},
		},
		{
			name:   "missing",
			answer: filepath.Join(dir, "gone.wav"),
			check: func(err error) bool {
				var notFound *handler.PathNotFoundError
				return errors.As(err, &notFound)
			},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := handler.AskPath(&scriptedPrompter{answers: []string{tt.answer}}, "path")
			if tt.check != nil {
				if !tt.check(err) {
					t.Errorf("AskPath() error = %v did not match", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AskPath() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("AskPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
