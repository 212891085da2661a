package chat

import (
	"context"
	"errors"

	"github.com/kitsune-cli/kitsune/internal/actions"
)

// ErrMissingAPIKey is returned when no Gemini credential is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// MissingAPIKeyMessage is printed when ErrMissingAPIKey stops the chat.
const MissingAPIKeyMessage = "Please create a .env file and add your GEMINI_API_KEY to it."

// Model produces the next model turn for a conversation.
type Model interface {
	Generate(ctx context.Context, history []Turn) (Turn, error)
}

// Executor runs a decoded action; *actions.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, action actions.Action) actions.Result
}

// ModelFunc adapts a function to Model.
type ModelFunc func(ctx context.Context, history []Turn) (Turn, error)

func (f ModelFunc) Generate(ctx context.Context, history []Turn) (Turn, error) {
	return f(ctx, history)
}
