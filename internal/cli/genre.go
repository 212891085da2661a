package cli

import (
	"errors"

	"github.com/kitsune-cli/kitsune/internal/fileutil"
	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
)

var genreMenu = []string{"Add Genre", "Remove Genre", "List Genres", "Clear All Genres", "Exit"}

// RunGenreMenu shows the genre menu once.
func RunGenreMenu(cmd *cobra.Command, app *App, args []string) error {
	idx, ok, err := choose(app, "Manage your preferred genres", menu.Options(genreMenu...))
	if err != nil || !ok {
		return err
	}

	prompting := app.prompting
	app.prompting = true
	defer func() { app.prompting = prompting }()

	switch genreMenu[idx] {
	case "Add Genre":
		return RunGenreAdd(cmd, app, nil)
	case "Remove Genre":
		return RunGenreRemove(cmd, app, nil)
	case "List Genres":
		return RunGenreList(cmd, app, nil)
	case "Clear All Genres":
		return RunGenreClear(cmd, app, nil)
	}
	return nil
}

func RunGenreList(cmd *cobra.Command, app *App, args []string) error {
	genres, err := app.Genres.List()
	if err != nil {
		return err
	}
	if len(genres) == 0 {
		app.println("You have no preferred genres saved.")
		return nil
	}
	app.println("Your preferred genres are:")
	for _, g := range genres {
		app.printf("- %s\n", g)
	}
	return nil
}

func RunGenreAdd(cmd *cobra.Command, app *App, args []string) error {
	inputs := args
	if len(inputs) == 0 {
		if err := RunGenreList(cmd, app, nil); err != nil {
			return err
		}
		genre, ok, err := textArg(app, nil, "Enter the genre you want to add:", "No genre entered. Operation cancelled.")
		if err != nil || !ok {
			return err
		}
		inputs = []string{genre}
	}

	added, err := app.Genres.Add(inputs...)
	switch {
	case errors.Is(err, store.ErrEmptyGenre):
		app.println("No genre entered. Operation cancelled.")
		return nil
	case err != nil:
		return err
	}

	addedSet := make(map[string]bool, len(added))
	for _, g := range added {
		addedSet[g] = true
		app.printf("Added genre: %s\n", g)
		if !store.IsKnownGenre(g) {
			app.printf("Note: '%s' is not an AniList genre, so recommendations for it may come back empty.\n", g)
		}
	}
	for _, raw := range inputs {
		g := store.NormalizeGenre(raw)
		if g != "" && !addedSet[g] {
			app.printf("Genre '%s' is already in your preferences.\n", g)
			addedSet[g] = true
		}
	}
	return nil
}

func RunGenreRemove(cmd *cobra.Command, app *App, args []string) error {
	var genre string
	if len(args) == 0 {
		if err := RunGenreList(cmd, app, nil); err != nil {
			return err
		}
		var ok bool
		var err error
		genre, ok, err = textArg(app, nil, "Enter the genre you want to remove:", "No genre entered. Operation cancelled.")
		if err != nil || !ok {
			return err
		}
	} else {
		genre = fileutil.JoinWords(args)
	}

	removed, err := app.Genres.Remove(genre)
	switch {
	case errors.Is(err, store.ErrEmptyGenre):
		app.println("No genre entered. Operation cancelled.")
		return nil
	case errors.Is(err, store.ErrNotFound):
		app.printf("Genre '%s' not found in your preferences.\n", store.NormalizeGenre(genre))
		return nil
	case err != nil:
		return err
	}
	app.printf("Removed genre: %s\n", removed)
	return nil
}

func RunGenreClear(cmd *cobra.Command, app *App, args []string) error {
	skip, err := OptionalBoolFlag(cmd, "yes", false)
	if err != nil {
		return err
	}
	if !skip {
		confirmed, err := confirm(app, "Are you sure you want to clear all genres? (Y/n):")
		if err != nil {
			return err
		}
		if !confirmed {
			app.println("Operation cancelled.")
			return nil
		}
	}
	if err := app.Genres.Clear(); err != nil {
		return err
	}
	app.println("Cleared all preferred genres.")
	return nil
}

// confirm asks until the answer is yes or no. Cancelling counts as no.
func confirm(app *App, prompt string) (bool, error) {
	for {
		answer, err := app.UI.Input(prompt, "Y/n")
		if err != nil {
			if errors.Is(err, menu.ErrCancelled) {
				return false, nil
			}
			return false, err
		}
		if yes, ok := menu.ParseYesNo(answer); ok {
			return yes, nil
		}
		app.println("Please answer y or n.")
	}
}
