package cli

import (
	"errors"

	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
)

func RunAdd(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Anime title to add:", "Please provide an anime title to add.")
	if err != nil || !ok {
		return err
	}
	addWatch(app, title)
	return nil
}

func RunUpdate(cmd *cobra.Command, app *App, args []string) error {
	const missing = "Please provide an anime title and the number of episodes watched."

	title, rawEpisodes := splitTrailing(args)
	if title == "" || rawEpisodes == "" {
		if !app.prompting {
			app.println(missing)
			return nil
		}
		var ok bool
		var err error
		if title, ok, err = textArg(app, nil, "Anime title to update:", missing); err != nil || !ok {
			return err
		}
		if rawEpisodes, ok, err = textArg(app, nil, "Episodes watched:", missing); err != nil || !ok {
			return err
		}
	}

	episodes, ok := parseEpisodes(rawEpisodes)
	if !ok {
		app.println("Please provide a valid number for episodes watched.")
		return nil
	}

	entry, err := app.Watchlist.UpdateEpisodes(title, episodes)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(app, store.WatchlistKind, title)
		return nil
	case err != nil:
		return err
	}
	app.printf("Updated '%s' to %d episodes watched.\n", entry.Title, entry.EpisodesWatched)
	return nil
}

func RunList(cmd *cobra.Command, app *App, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	entries, err := app.Watchlist.Entries()
	if err != nil {
		return err
	}
	return PrintWatchlist(app.Out, entries, asJSON)
}

func RunRemove(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Anime title to remove:", "Please provide an anime title to remove.")
	if err != nil || !ok {
		return err
	}
	entry, err := app.Watchlist.Remove(title)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(app, store.WatchlistKind, title)
		return nil
	case err != nil:
		return err
	}
	app.printf("Removed '%s' from your watchlist.\n", entry.Title)
	return nil
}
