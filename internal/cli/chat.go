package cli

import (
	"errors"

	"github.com/kitsune-cli/kitsune/internal/actions"
	"github.com/kitsune-cli/kitsune/internal/chat"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func RunChat(cmd *cobra.Command, app *App, args []string) error {
	ctx := cmd.Context()
	model, err := app.Model(ctx)
	if errors.Is(err, chat.ErrMissingAPIKey) {
		app.println(chat.MissingAPIKeyMessage)
		return nil
	}
	if err != nil {
		return err
	}

	executor := actions.NewExecutor(actions.Deps{
		Watchlist:      app.Watchlist,
		Readlist:       app.Readlist,
		Genres:         app.Genres,
		Player:         app.Player,
		Browser:        app.Browser,
		Finder:         app.Jikan(),
		Logger:         app.Logger,
		FallbackSearch: app.Config.Watch.FallbackSearch,
	})

	input := app.Lines
	render := chat.PlainRenderer
	if app.Terminal {
		terminal := chat.NewTerminalReader()
		defer func() {
			if err := terminal.Close(); err != nil {
				app.Logger.Debug("closing line editor failed", zap.Error(err))
			}
		}()
		input = terminal
		render = chat.MarkdownRenderer(80)
	}

	session := chat.NewSession(chat.Options{
		Model:           model,
		Executor:        executor,
		History:         chat.NewHistoryFile(app.Config.DataDir),
		Input:           input,
		Output:          app.Out,
		Render:          render,
		Logger:          app.Logger,
		MaxActionRounds: app.Config.Chat.MaxActionRounds,
	})
	return session.Run(ctx)
}
