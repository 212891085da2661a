package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	DefaultCommand = "ani-cli"
	InstallURL     = "https://github.com/pystardust/ani-cli"
)

// ErrNotInstalled means the player binary is missing from PATH.
var ErrNotInstalled = errors.New("player not installed")

// NotInstalledError names the missing binary.
type NotInstalledError struct {
	Command string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("Error: '%s' is not installed or not found in PATH. Please install it from:  %s", e.Command, InstallURL)
}

func (e *NotInstalledError) Is(target error) bool {
	return target == ErrNotInstalled
}

// Runner starts a process with the terminal attached and waits for it.
type Runner func(ctx context.Context, stdio Stdio, name string, args ...string) error

// Stdio is the terminal a launched process inherits.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio attaches the current process's terminal.
func DefaultStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func defaultRunner(ctx context.Context, stdio Stdio, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
	return cmd.Run()
}

// Player launches an external terminal video player.
type Player struct {
	command  string
	stdio    Stdio
	run      Runner
	lookPath func(file string) (string, error)
	logger   *zap.Logger
}

type Option func(*Player)

func WithRunner(run Runner) Option {
	return func(p *Player) { p.run = run }
}

func WithLookPath(lookPath func(file string) (string, error)) Option {
	return func(p *Player) { p.lookPath = lookPath }
}

func WithStdio(stdio Stdio) Option {
	return func(p *Player) { p.stdio = stdio }
}

func WithLogger(logger *zap.Logger) Option {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a Player for command ("ani-cli" when empty).
func New(command string, opts ...Option) *Player {
	command = strings.TrimSpace(command)
	if command == "" {
		command = DefaultCommand
	}
	p := &Player{
		command:  command,
		stdio:    DefaultStdio(),
		run:      defaultRunner,
		lookPath: exec.LookPath,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Command() string {
	return p.command
}

// Check reports a *NotInstalledError when the player is not on PATH.
func (p *Player) Check() error {
	if _, err := p.lookPath(p.command); err != nil {
		p.logger.Debug("player lookup failed", zap.String("command", p.command), zap.Error(err))
		return &NotInstalledError{Command: p.command}
	}
	return nil
}

// Watch launches the player with title as its query and blocks until the
// player exits.
func (p *Player) Watch(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("anime title is empty")
	}
	if err := p.Check(); err != nil {
		return err
	}

	p.logger.Info("launching player", zap.String("command", p.command), zap.String("title", title))
	if err := p.run(ctx, p.stdio, p.command, title); err != nil {
		return fmt.Errorf("%s exited: %w", p.command, err)
	}
	return nil
}
