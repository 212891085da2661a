package cli

import (
	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/spf13/cobra"
)

type handler func(cmd *cobra.Command, app *App, args []string) error

type menuEntry struct {
	label  string
	detail string
	run    handler
}

func mainMenuEntries() []menuEntry {
	return []menuEntry{
		{"Search anime", "find a title, then watch it or add it", RunSearch},
		{"Recommendations", "popular anime for your genres", RunRecommend},
		{"Add to watchlist", "", RunAdd},
		{"Update episodes", "", RunUpdate},
		{"List watchlist", "", RunList},
		{"Remove from watchlist", "", RunRemove},
		{"Chat with the assistant", "", RunChat},
		{"Watch anime", "", RunWatch},
		{"Read a light novel", "", RunRead},
		{"Anime info", "details from AniList", RunInfo},
		{"Manage genres", "", RunGenreMenu},
		{"Manga", "search, readlist and recommendations", RunMangaMenu},
		{"Find on my lists", "", RunFind},
	}
}

// RunMainMenu shows the main menu until the user picks Exit or cancels.
func RunMainMenu(cmd *cobra.Command, app *App) error {
	entries := mainMenuEntries()
	options := make([]menu.Option, 0, len(entries)+1)
	for _, e := range entries {
		options = append(options, menu.Option{Label: e.label, Detail: e.detail})
	}
	options = append(options, menu.Option{Label: "Exit"})

	app.prompting = true
	for {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		idx, ok, err := choose(app, "kitsune", options)
		if err != nil || !ok || idx >= len(entries) {
			return err
		}
		if err := entries[idx].run(cmd, app, nil); err != nil {
			app.printf("An error occurred: %v\n", err)
		}
	}
}
