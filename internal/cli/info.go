package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RunInfo prints AniList details for one title.
func RunInfo(cmd *cobra.Command, app *App, args []string) error {
	title, ok, err := textArg(app, args, "Anime title:", "Please provide an anime title.")
	if err != nil || !ok {
		return err
	}

	progress := newProgressReporter(app, "Looking up "+title)
	progress.Start()
	media, err := app.AniList().Details(cmd.Context(), title)
	if err != nil {
		progress.Clear()
		app.Logger.Warn("details lookup failed", zap.String("title", title), zap.Error(err))
		app.printf("Could not look up '%s'.\n", title)
		return nil
	}
	if media == nil {
		progress.Clear()
		app.printf("No AniList entry found for '%s'.\n", title)
		return nil
	}
	progress.Done(1, "match")

	app.println(media.DisplayTitle())
	if len(media.Genres) > 0 {
		app.printf("  + Genres: %s\n", strings.Join(media.Genres, ", "))
	}
	if media.AverageScore > 0 {
		app.printf("  + Score: %d\n", media.AverageScore)
	} else {
		app.println("  + Score: N/A")
	}
	if media.Episodes > 0 {
		app.printf("  + Episodes: %d\n", media.Episodes)
	}
	if media.SiteURL != "" {
		app.printf("  + Link: %s\n", media.SiteURL)
	}
	if media.Description != "" {
		app.printf("\n%s\n", media.Description)
	}
	return nil
}
