package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/chat"
	"github.com/kitsune-cli/kitsune/internal/menu"
)

// promptUI is the line-based UI used when stdin is not a terminal: options
// are numbered and the user types a number.
type promptUI struct {
	lines chat.LineReader
	out   io.Writer
}

func (p *promptUI) Select(title string, options []menu.Option) (int, error) {
	if len(options) == 0 {
		return -1, menu.ErrCancelled
	}
	fmt.Fprintln(p.out, title)
	for i, o := range options {
		if o.Detail != "" {
			fmt.Fprintf(p.out, "  %d) %s - %s\n", i+1, o.Label, o.Detail)
			continue
		}
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o.Label)
	}

	for {
		line, err := p.read(fmt.Sprintf("Choose [1-%d]: ", len(options)))
		if err != nil {
			return -1, err
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
	}
}

func (p *promptUI) Input(prompt, _ string) (string, error) {
	return p.read(prompt + " ")
}

func (p *promptUI) read(prompt string) (string, error) {
	line, err := p.lines.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, chat.ErrInputClosed) {
			fmt.Fprintln(p.out)
			return "", menu.ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
