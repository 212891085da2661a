package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/fileutil"
	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
)

const mangaRecommendLimit = 10

var mangaActions = []string{"view on web", "add to readlist", exitOption}

func RunMangaSearch(cmd *cobra.Command, app *App, args []string) error {
	query, ok, err := textArg(app, args, "Enter manga title to search:", "No query provided.")
	if err != nil || !ok {
		return err
	}
	limit, err := OptionalIntFlag(cmd, "limit", app.Config.Catalog.SearchLimit)
	if err != nil {
		return err
	}

	results := searchCatalog(cmd, app, catalog.KindManga, query, limit)
	if len(results) == 0 {
		app.printf("No results found for '%s'.\n", query)
		return nil
	}

	picked, ok, err := pickResult(app, fmt.Sprintf("Manga results for %q:", query), results)
	if err != nil || !ok {
		return err
	}
	idx, ok, err := choose(app, picked.Title, menu.Options(mangaActions...))
	if err != nil || !ok {
		return err
	}
	switch mangaActions[idx] {
	case "view on web":
		return openPage(cmd.Context(), app, player.SearchManga, picked.URL, picked.Title)
	case "add to readlist":
		addRead(app, picked.Title)
	}
	return nil
}

func RunMangaAdd(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Manga title to add:", "Please provide a manga title to add.")
	if err != nil || !ok {
		return err
	}
	addRead(app, title)
	return nil
}

func RunMangaList(cmd *cobra.Command, app *App, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	entries, err := app.Readlist.Entries()
	if err != nil {
		return err
	}
	return PrintReadlist(app.Out, entries, asJSON)
}

func RunMangaProgress(cmd *cobra.Command, app *App, args []string) error {
	const missing = "Please provide a manga title and your progress."

	title, progress := splitTrailing(args)
	if title == "" || progress == "" {
		if !app.prompting {
			app.println(missing)
			return nil
		}
		var ok bool
		var err error
		if title, ok, err = textArg(app, nil, "Manga title:", missing); err != nil || !ok {
			return err
		}
		if progress, ok, err = textArg(app, nil, "Progress (chapter or volume):", missing); err != nil || !ok {
			return err
		}
	}

	entry, err := app.Readlist.UpdateProgress(title, progress)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(app, store.ReadlistKind, title)
		return nil
	case errors.Is(err, store.ErrEmptyProgress):
		app.println(missing)
		return nil
	case err != nil:
		return err
	}
	app.printf("Updated '%s' progress to %s.\n", entry.Title, entry.Progress)
	return nil
}

func RunMangaRemove(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Manga title to remove:", "Please provide a manga title to remove.")
	if err != nil || !ok {
		return err
	}
	entry, err := app.Readlist.Remove(title)
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(app, store.ReadlistKind, title)
		return nil
	case err != nil:
		return err
	}
	app.printf("Removed '%s' from your readlist.\n", entry.Title)
	return nil
}

// RunMangaRecommend lists top matches for a keyword, or for "manga" when
// none is given.
func RunMangaRecommend(cmd *cobra.Command, app *App, args []string) error {
	keyword := ""
	if len(args) > 0 {
		keyword = fileutil.JoinWords(args)
	} else if app.prompting {
		answer, err := app.UI.Input("Enter a keyword or leave blank for popular manga:", "")
		if err != nil && !errors.Is(err, menu.ErrCancelled) {
			return err
		}
		keyword = answer
	}
	if keyword == "" {
		keyword = "manga"
	}

	results := searchCatalog(cmd, app, catalog.KindManga, keyword, mangaRecommendLimit)
	if len(results) == 0 {
		app.println("No recommendations found.")
		return nil
	}
	app.println("Recommendations:")
	for _, r := range results {
		app.printf("- %s (Score: %s)\n", r.Title, formatScore(r.Score))
	}
	return nil
}

func formatScore(score float64) string {
	if score <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(score, 'f', 2, 64)
}

// RunMangaMenu shows the manga sub-menu once.
func RunMangaMenu(cmd *cobra.Command, app *App, args []string) error {
	items := []struct {
		label string
		run   func(*cobra.Command, *App, []string) error
	}{
		{"Search manga", RunMangaSearch},
		{"Add to readlist", RunMangaAdd},
		{"List readlist", RunMangaList},
		{"Update progress", RunMangaProgress},
		{"Remove from readlist", RunMangaRemove},
		{"Recommend manga", RunMangaRecommend},
	}
	options := make([]menu.Option, 0, len(items)+1)
	for _, item := range items {
		options = append(options, menu.Option{Label: item.label})
	}
	options = append(options, menu.Option{Label: "Exit"})

	idx, ok, err := choose(app, "Manga", options)
	if err != nil || !ok || idx >= len(items) {
		return err
	}

	prompting := app.prompting
	app.prompting = true
	defer func() { app.prompting = prompting }()
	return items[idx].run(cmd, app, nil)
}
