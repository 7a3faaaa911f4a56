package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glizzus/ckdtool/internal/datalayer"
	"github.com/glizzus/ckdtool/internal/generator"
	"github.com/glizzus/ckdtool/internal/presenters"
)

// Codecs decodes containers and encodes edited audio.
type Codecs interface {
	FindDecoder() (string, error)
	Uncook(ctx context.Context, ckdPath string) (string, error)
	EncodeXMA(ctx context.Context, wavPath string) (string, error)
}

// MenuTitle is shown above the options on every pass through the menu.
const MenuTitle = "Just Dance 360 Audio Tool"

// MenuOptions are listed in menu order.
var MenuOptions = []string{
	"Uncook .wav.ckd -> .wav",
	"Recook (template .wav.ckd + edited .wav -> new .wav.ckd)",
	"Exit",
}

const (
	optionUncook = iota
	optionRecook
	optionExit
)

// Menu is the interactive front end. Each action runs to completion before
// the menu is shown again; errors are reported and never end the loop.
type Menu struct {
	Prompter Prompter
	Console  *presenters.Console
	Codecs   Codecs

	// OutputDir receives every recooked container.
	OutputDir string
	// Archive, if set, also receives a copy of every recooked container.
	Archive datalayer.BlobStorage

	RunIDs generator.Generator[string]
	Logger *slog.Logger
}

// Run shows the menu until the user exits or aborts input.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.Console.Title(MenuTitle)
		choice, err := m.Prompter.Choose("Select an option", MenuOptions)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read menu choice: %w", err)
		}

		switch choice {
		case optionUncook:
			m.runAction(ctx, "uncook", m.Uncook)
		case optionRecook:
			m.runAction(ctx, "recook", m.Recook)
		case optionExit:
			return nil
		default:
			m.Console.Fail("Invalid choice, try again.")
		}
	}
}

type action func(ctx context.Context, log *slog.Logger) error

func (m *Menu) runAction(ctx context.Context, name string, fn action) {
	log := m.logger().With("action", name)
	if m.RunIDs != nil {
		if id, err := m.RunIDs.Next(); err == nil {
			log = log.With("runID", id)
		} else {
			log.Warn("failed to generate run ID", "error", err)
		}
	}

	err := fn(ctx, log)
	if err == nil {
		return
	}

	var (
		userErr     *UserError
		notFoundErr *PathNotFoundError
	)
	switch {
	case errors.Is(err, ErrAborted):
		m.Console.Warn("Cancelled.")
	case errors.As(err, &userErr):
		m.Console.Fail("%s", userErr.Message)
	case errors.As(err, &notFoundErr):
		m.Console.Fail("File not found: %s", notFoundErr.Path)
	default:
		log.Error("action failed", "error", err)
		m.Console.Lines(presenters.ErrorLines(name, err))
	}
}

func (m *Menu) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}
