package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrInputClosed ends the conversation the way typing quit does.
var ErrInputClosed = errors.New("input closed")

// LineReader reads one line of user input after printing prompt.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// TerminalReader is a line editor with in-session history.
type TerminalReader struct {
	state *liner.State
}

func NewTerminalReader() *TerminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &TerminalReader{state: state}
}

func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("input error: %w", err)
	}
	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

func (r *TerminalReader) Close() error {
	return r.state.Close()
}

// StreamReader reads lines from a plain stream. It is used when stdin is
// not a terminal.
type StreamReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewStreamReader(in io.Reader, out io.Writer) *StreamReader {
	return &StreamReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *StreamReader) ReadLine(prompt string) (string, error) {
	if r.out != nil {
		fmt.Fprint(r.out, prompt)
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", fmt.Errorf("input error: %w", err)
		}
		return "", ErrInputClosed
	}
	return r.scanner.Text(), nil
}

func (r *StreamReader) Close() error {
	return nil
}
