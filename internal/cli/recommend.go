package cli

import (
	"errors"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/kitsune-cli/kitsune/internal/recommend"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
)

func RunRecommend(cmd *cobra.Command, app *App, args []string) error {
	mode, ok, err := recommendMode(cmd, app)
	if err != nil || !ok {
		return err
	}

	rec := app.Recommender()
	progress := newProgressReporter(app, "Fetching recommendations")
	var result recommend.Result

	if mode == recommend.ModeWatchlist {
		entries, err := app.Watchlist.Entries()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			app.println("Your watchlist is empty. Add some anime first.")
			return nil
		}
		titles := make([]string, len(entries))
		for i, e := range entries {
			titles[i] = e.Title
		}
		progress.Start()
		result, err = rec.FromWatchlist(cmd.Context(), titles)
		if errors.Is(err, recommend.ErrNoGenres) {
			progress.Clear()
			app.println("Could not work out any genres from your watchlist.")
			return nil
		}
		if err != nil {
			progress.Clear()
			return err
		}
		app.printf("\nGenres from your watchlist: %s\n", strings.Join(result.Genres, ", "))
	} else {
		genres, err := recommendGenres(app, args)
		if err != nil {
			return err
		}
		if len(genres) == 0 {
			app.println("\nPlease chat with the bot first to save your genre preferences, or add some with 'kitsune genre add'.")
			return nil
		}
		app.printf("\nYour preferred genres: %s\n", strings.Join(genres, ", "))
		progress.Start()
		result, err = rec.ForGenres(cmd.Context(), mode, genres)
		if err != nil {
			progress.Clear()
			return err
		}
	}
	progress.Done(countMedia(result), "titles")

	if err := recommend.WriteGroups(app.Out, result); err != nil {
		return err
	}
	if result.Empty() {
		return nil
	}
	return maybeSaveDump(cmd, app, result)
}

// recommendMode reads --mode, or asks. ok is false when the user exits.
func recommendMode(cmd *cobra.Command, app *App) (recommend.Mode, bool, error) {
	if flagChanged(cmd, "mode") {
		raw, err := OptionalStringFlag(cmd, "mode")
		if err != nil {
			return 0, false, err
		}
		mode, err := recommend.ParseMode(raw)
		return mode, err == nil, err
	}

	modes := recommend.Modes()
	options := make([]menu.Option, 0, len(modes)+1)
	for _, m := range modes {
		options = append(options, menu.Option{Label: m.String()})
	}
	options = append(options, menu.Option{Label: "Exit"})

	idx, ok, err := choose(app, "How should your genres be used?", options)
	if err != nil || !ok || idx >= len(modes) {
		return 0, false, err
	}
	return modes[idx], true, nil
}

// recommendGenres uses genres named on the command line, else the saved ones.
func recommendGenres(app *App, args []string) ([]string, error) {
	if len(args) > 0 {
		var genres []string
		for _, arg := range strings.Split(strings.Join(args, " "), ",") {
			if g := store.NormalizeGenre(arg); g != "" {
				genres = append(genres, g)
			}
		}
		return genres, nil
	}
	return app.Genres.List()
}

func maybeSaveDump(cmd *cobra.Command, app *App, result recommend.Result) error {
	save := false
	if flagChanged(cmd, "save") {
		var err error
		if save, err = OptionalBoolFlag(cmd, "save", false); err != nil {
			return err
		}
	} else {
		idx, ok, err := choose(app, "\nSave result to 'recommendations.txt' ?:", menu.Options("Yes", "No"))
		if err != nil {
			return err
		}
		save = ok && idx == 0
	}
	if !save {
		return nil
	}

	path, err := recommend.SaveDump(app.Config.DataDir, result)
	if err != nil {
		return err
	}
	app.printf("Recommendations saved to %s\n", path)
	return nil
}

func countMedia(result recommend.Result) int {
	n := 0
	for _, g := range result.Groups {
		n += len(g.Media)
	}
	return n
}
