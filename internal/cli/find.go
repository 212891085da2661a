package cli

import (
	"fmt"

	"github.com/kitsune-cli/kitsune/internal/search"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunFind searches both lists for titles matching loose words.
func RunFind(cmd *cobra.Command, app *App, args []string) error {
	query, ok, err := textArg(app, args, "Title to find:", "Please provide part of a title to find.")
	if err != nil || !ok {
		return err
	}
	limit, err := OptionalIntFlag(cmd, "limit", app.Config.Catalog.SearchLimit)
	if err != nil {
		return err
	}

	entries, err := titleEntries(app, store.WatchlistKind, store.ReadlistKind)
	if err != nil {
		return err
	}
	results := search.Build(entries).Search(query, limit)
	if len(results) == 0 {
		app.printf("Nothing on your lists matches %q.\n", query)
		return nil
	}
	for _, r := range results {
		if r.Entry.Note != "" {
			app.printf("- %s [%s, %s]\n", r.Entry.Title, r.Entry.List, r.Entry.Note)
			continue
		}
		app.printf("- %s [%s]\n", r.Entry.Title, r.Entry.List)
	}
	return nil
}

// notFound prints the miss for title and, when one is close enough, the
// saved title the user probably meant.
func notFound(app *App, kind store.ListKind, title string) {
	app.println(store.NotFoundMessage(kind, title))
	entries, err := titleEntries(app, kind)
	if err != nil {
		app.Logger.Debug("title suggestions unavailable", zap.Error(err))
		return
	}
	if closest, ok := search.Build(entries).Closest(title); ok {
		app.printf("Did you mean '%s'?\n", closest.Title)
	}
}

func titleEntries(app *App, kinds ...store.ListKind) ([]search.Entry, error) {
	var entries []search.Entry
	for _, kind := range kinds {
		switch kind {
		case store.WatchlistKind:
			watched, err := app.Watchlist.Entries()
			if err != nil {
				return nil, err
			}
			for i, e := range watched {
				entries = append(entries, search.Entry{
					ID:    fmt.Sprintf("%s:%04d", kind.Name, i),
					Title: e.Title,
					List:  kind.Name,
					Note:  fmt.Sprintf("%d episodes", e.EpisodesWatched),
				})
			}
		case store.ReadlistKind:
			read, err := app.Readlist.Entries()
			if err != nil {
				return nil, err
			}
			for i, e := range read {
				entries = append(entries, search.Entry{
					ID:    fmt.Sprintf("%s:%04d", kind.Name, i),
					Title: e.Title,
					List:  kind.Name,
					Note:  "progress " + e.Progress,
				})
			}
		}
	}
	return entries, nil
}
