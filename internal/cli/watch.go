package cli

import (
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/spf13/cobra"
)

func RunWatch(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Anime title to watch:", "Please provide an anime title to watch.")
	if err != nil || !ok {
		return err
	}
	return watchTitle(cmd.Context(), app, title)
}

func RunRead(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Light novel title:", "Please provide a light novel title to read.")
	if err != nil || !ok {
		return err
	}
	app.printf("Searching for light novel '%s'...\n", title)
	return openSearch(cmd.Context(), app, player.SearchNovel, title)
}
