package handler

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// This file holds the terminal-bound Prompter; the menu logic is tested
// against scripted prompters instead.

// InteractivePrompter reads from the terminal using promptui.
type InteractivePrompter struct{}

var _ Prompter = (*InteractivePrompter)(nil)

func (p *InteractivePrompter) Choose(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label:        label,
		Items:        items,
		HideSelected: true,
	}
	i, _, err := sel.Run()
	if err != nil {
		return -1, promptError(label, err)
	}
	return i, nil
}

func (p *InteractivePrompter) Ask(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
	}
	val, err := prompt.Run()
	if err != nil {
		return "", promptError(label, err)
	}
	return val, nil
}

func promptError(label string, err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrAborted
	}
	return fmt.Errorf("prompt for %q: %w", label, err)
}
