package cli

import (
	"fmt"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exitOption = "(exit)"

var searchActions = []string{"watch", "view on web", "add to watchlist", exitOption}

func RunSearch(cmd *cobra.Command, app *App, args []string) error {
	query, ok, err := textArg(app, args, "Anime title to search:", "Please provide an anime title to search.")
	if err != nil || !ok {
		return err
	}
	limit, err := OptionalIntFlag(cmd, "limit", app.Config.Catalog.SearchLimit)
	if err != nil {
		return err
	}

	results := searchCatalog(cmd, app, catalog.KindAnime, query, limit)
	if len(results) == 0 {
		app.printf("No results found for %q.\n", query)
		return nil
	}

	picked, ok, err := pickResult(app, fmt.Sprintf("Search results for %q:", query), results)
	if err != nil || !ok {
		return err
	}

	idx, ok, err := choose(app, picked.Title, menu.Options(searchActions...))
	if err != nil || !ok {
		return err
	}
	ctx := cmd.Context()
	switch searchActions[idx] {
	case "watch":
		app.println("enjoy your anime!")
		return watchTitle(ctx, app, picked.Title)
	case "view on web":
		return openPage(ctx, app, player.SearchAnime, picked.URL, picked.Title)
	case "add to watchlist":
		addWatch(app, picked.Title)
	}
	return nil
}

// searchCatalog runs a Jikan search. Failures are logged and read as no
// results.
func searchCatalog(cmd *cobra.Command, app *App, kind catalog.MediaKind, query string, limit int) []catalog.SearchResult {
	progress := newProgressReporter(app, "Searching "+string(kind))
	progress.Start()

	var (
		results []catalog.SearchResult
		err     error
	)
	if kind == catalog.KindManga {
		results, err = app.Jikan().SearchManga(cmd.Context(), query, limit)
	} else {
		results, err = app.Jikan().SearchAnime(cmd.Context(), query, limit)
	}
	if err != nil {
		progress.Clear()
		app.Logger.Warn("catalog search failed",
			zap.String("kind", string(kind)),
			zap.String("query", query),
			zap.Bool("retryable", catalog.IsRetryable(err)),
			zap.Error(err),
		)
		return nil
	}
	progress.Done(len(results), "results")
	return results
}

// pickResult lists results plus an exit row. ok is false on exit.
func pickResult(app *App, title string, results []catalog.SearchResult) (catalog.SearchResult, bool, error) {
	options := make([]menu.Option, 0, len(results)+1)
	for _, r := range results {
		options = append(options, menu.Option{Label: r.Label()})
	}
	options = append(options, menu.Option{Label: exitOption})

	idx, ok, err := choose(app, title, options)
	if err != nil || !ok || idx >= len(results) {
		return catalog.SearchResult{}, false, err
	}
	return results[idx], true, nil
}
