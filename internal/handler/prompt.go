package handler

import (
	"os"
	"strings"
)

// Prompter asks the user for input.
type Prompter interface {
	// Choose presents items and returns the index of the one picked.
	Choose(label string, items []string) (int, error)
	// Ask returns a line of free text.
	Ask(label string) (string, error)
}

// CleanInput trims surrounding whitespace and then surrounding double
// quotes, which terminals add when a file is dragged onto the window.
func CleanInput(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// AskPath asks for the path of an existing regular file.
func AskPath(p Prompter, label string) (string, error) {
	raw, err := p.Ask(label)
	if err != nil {
		return "", err
	}

	path := CleanInput(raw)
	if path == "" {
		return "", &UserError{Message: "No path provided."}
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", &PathNotFoundError{Path: path}
	}
	return path, nil
}
