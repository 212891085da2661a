package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/kitsune-cli/kitsune/internal/store"
	"go.uber.org/zap"
)

// watchTitle launches the player, printing the install hint instead of
// failing when it is missing.
func watchTitle(ctx context.Context, app *App, title string) error {
	if err := app.Player.Check(); err != nil {
		if errors.Is(err, player.ErrNotInstalled) {
			app.println(err.Error())
			return nil
		}
		return err
	}
	app.printf("Opening '%s' with %s...\n", title, app.Player.Command())
	if err := app.Player.Watch(ctx, title); err != nil {
		return fmt.Errorf("failed to play '%s': %w", title, err)
	}
	return nil
}

// openSearch opens a browser search and reports the URL.
func openSearch(ctx context.Context, app *App, kind player.SearchKind, query string) error {
	target, err := app.Browser.Search(ctx, kind, query)
	if err != nil {
		return fmt.Errorf("failed to open the browser: %w", err)
	}
	app.printf("Opened %s\n", target)
	return nil
}

// openPage opens url directly, falling back to a search when it is empty.
func openPage(ctx context.Context, app *App, kind player.SearchKind, url, query string) error {
	if url == "" {
		return openSearch(ctx, app, kind, query)
	}
	if err := app.Browser.Open(ctx, url); err != nil {
		return fmt.Errorf("failed to open the browser: %w", err)
	}
	app.printf("Opened %s\n", url)
	return nil
}

func addWatch(app *App, title string) {
	entry, err := app.Watchlist.Add(title)
	if entry.Title != "" {
		title = entry.Title
	}
	if err != nil && !errors.Is(err, store.ErrDuplicate) && !errors.Is(err, store.ErrEmptyTitle) {
		app.Logger.Warn("watchlist add failed", zap.String("title", title), zap.Error(err))
	}
	app.println(store.AddMessage(store.WatchlistKind, title, err))
}

func addRead(app *App, title string) {
	entry, err := app.Readlist.Add(title)
	if entry.Title != "" {
		title = entry.Title
	}
	if err != nil && !errors.Is(err, store.ErrDuplicate) && !errors.Is(err, store.ErrEmptyTitle) {
		app.Logger.Warn("readlist add failed", zap.String("title", title), zap.Error(err))
	}
	app.println(store.AddMessage(store.ReadlistKind, title, err))
}
