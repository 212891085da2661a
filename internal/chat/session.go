package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/actions"
	"github.com/kitsune-cli/kitsune/internal/store"
	"go.uber.org/zap"
)

const (
	DefaultMaxActionRounds = 4

	BootstrapPrompt = "You are an anime assistant. You can help users with many things " +
		"like adding anime to the watch list, saving the genres they like, tracking episodes, " +
		"adding manga to their readlist, searching and suggesting anime based on interests " +
		"and automatically stop when user wants to quit. You can call functions to open an " +
		"anime when the user requests it. To start, ask the user what types of anime they like?"

	readyMessage   = "Anime assistant is ready. You can start chatting."
	goodbyeMessage = "Ending the chat. Goodbye!"
	quitMessage    = "Assistant: Ending the chat per your request. Goodbye!"
	userPrompt     = "You: "
)

// Options wire a Session.
type Options struct {
	Model    Model
	Executor Executor
	History  store.Repository[[]Turn]
	Input    LineReader
	Output   io.Writer
	Render   Renderer
	Logger   *zap.Logger
	// MaxActionRounds caps consecutive replies that invoke actions after one
	// user message.
	MaxActionRounds int
}

// Session runs the conversation loop.
type Session struct {
	model     Model
	exec      Executor
	history   store.Repository[[]Turn]
	in        LineReader
	out       io.Writer
	render    Renderer
	logger    *zap.Logger
	maxRounds int

	turns []Turn
}

func NewSession(opts Options) *Session {
	s := &Session{
		model:     opts.Model,
		exec:      opts.Executor,
		history:   opts.History,
		in:        opts.Input,
		out:       opts.Output,
		render:    opts.Render,
		logger:    opts.Logger,
		maxRounds: opts.MaxActionRounds,
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.render == nil {
		s.render = PlainRenderer
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxRounds <= 0 {
		s.maxRounds = DefaultMaxActionRounds
	}
	return s
}

// Turns returns the conversation as it currently stands.
func (s *Session) Turns() []Turn {
	return s.turns
}

// Run loads history, greets or resumes, then reads lines until quit, EOF or
// a quit_chat action. The history is saved on every exit path that got past
// loading.
func (s *Session) Run(ctx context.Context) (err error) {
	turns, err := loadHistory(s.history, s.logger)
	if err != nil {
		return err
	}
	s.turns = resumable(turns)

	defer func() {
		if saveErr := s.save(); saveErr != nil && err == nil {
			err = saveErr
		}
	}()

	s.println(readyMessage)
	quit, err := s.start(ctx)
	if err != nil || quit {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.in.ReadLine(userPrompt)
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				s.println("")
				s.println(goodbyeMessage)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "quit") {
			s.println(goodbyeMessage)
			return nil
		}

		s.turns = append(s.turns, UserText(line))
		quit, err := s.respond(ctx, len(s.turns)-1, "assistant: ")
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			s.reportError(err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// start either bootstraps a new conversation or resumes a saved one.
func (s *Session) start(ctx context.Context) (bool, error) {
	if len(s.turns) == 0 {
		s.turns = append(s.turns, UserText(BootstrapPrompt))
		quit, err := s.respond(ctx, 0, "assistant: ")
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return false, ctxErr
			}
			s.reportError(err)
			return false, nil
		}
		return quit, nil
	}

	last := s.turns[len(s.turns)-1]
	if last.Role == RoleModel {
		if text := last.Text(); text != "" {
			s.println("assistant (continuing): " + s.render(text))
		}
		return false, nil
	}

	quit, err := s.respond(ctx, len(s.turns)-1, "assistant (continuing): ")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		s.reportError(err)
		return false, nil
	}
	return quit, nil
}

// respond asks the model for a reply to the unanswered user turn at index
// pending and dispatches any action invocations. On failure the turns from
// pending onward are removed so the history stays valid.
func (s *Session) respond(ctx context.Context, pending int, prefix string) (bool, error) {
	for round := 0; ; round++ {
		reply, err := s.model.Generate(ctx, s.turns)
		if err != nil {
			s.turns = s.turns[:pending]
			return false, err
		}
		reply = reply.withCallIDs()
		reply.Role = RoleModel

		calls := reply.Calls()
		if len(calls) > 0 && round >= s.maxRounds {
			s.logger.Warn("action round limit reached", zap.Int("rounds", round))
			reply = reply.WithoutCalls()
			calls = nil
			s.println("assistant: stopped after too many actions in a row.")
		}
		if len(reply.Parts) > 0 {
			s.turns = append(s.turns, reply)
		}

		if text := reply.Text(); text != "" {
			s.println(prefix + s.render(text))
		}
		if len(calls) == 0 {
			return false, nil
		}

		responses, quit := s.dispatch(ctx, calls)
		s.turns = append(s.turns, Turn{Role: RoleUser, Parts: responses})
		if quit {
			s.println(quitMessage)
			return true, nil
		}
		prefix = "assistant: "
	}
}

func (s *Session) dispatch(ctx context.Context, calls []FunctionCall) ([]Part, bool) {
	parts := make([]Part, 0, len(calls))
	quit := false
	for _, call := range calls {
		var result actions.Result
		action, err := actions.Decode(call.Name, call.Args)
		switch {
		case errors.Is(err, actions.ErrUnknownAction):
			s.println("assistant called an unknown function: " + call.Name)
			s.logger.Warn("unknown action", zap.String("name", call.Name))
			result = actions.ErrorResult(err)
		case err != nil:
			s.println(fmt.Sprintf("assistant: could not run %s: %v", call.Name, err))
			s.logger.Warn("malformed action arguments", zap.String("name", call.Name), zap.Error(err))
			result = actions.ErrorResult(err)
		default:
			result = s.exec.Execute(ctx, action)
			if !result.Quit {
				s.println("assistant: " + result.Text)
			}
			quit = quit || result.Quit
		}
		parts = append(parts, ResponsePart(FunctionResponse{
			ID:       call.ID,
			Name:     call.Name,
			Response: result.Response(),
		}))
	}
	return parts, quit
}

func (s *Session) reportError(err error) {
	s.logger.Warn("model call failed", zap.Error(err))
	s.println(fmt.Sprintf("An error occurred: %v", err))
}

func (s *Session) save() error {
	if err := s.history.Save(s.turns); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	s.println("Chat history saved to 'history.json'.")
	return nil
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}
