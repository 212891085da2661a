package menu

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Terminal runs the widgets as full-screen bubbletea programs.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stdout}
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("menu failed: %w", err)
	}
	return final, nil
}

// Select shows options and returns the chosen index.
func (t *Terminal) Select(title string, options []Option) (int, error) {
	if len(options) == 0 {
		return -1, ErrCancelled
	}
	final, err := t.run(NewSelect(title, options))
	if err != nil {
		return -1, err
	}
	idx, ok := final.(SelectModel).Chosen()
	if !ok {
		return -1, ErrCancelled
	}
	return idx, nil
}

// Input asks for one line of text.
func (t *Terminal) Input(prompt, placeholder string) (string, error) {
	final, err := t.run(NewInput(prompt, placeholder))
	if err != nil {
		return "", err
	}
	value, ok := final.(InputModel).Value()
	if !ok {
		return "", ErrCancelled
	}
	return value, nil
}
