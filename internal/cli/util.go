package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/fileutil"
	"github.com/kitsune-cli/kitsune/internal/menu"
)

// textArg joins args into one value. When args are empty it asks through
// the UI if the App is prompting, otherwise it prints missing. ok is false
// when there is nothing to act on.
func textArg(app *App, args []string, prompt, missing string) (string, bool, error) {
	if value := fileutil.JoinWords(args); value != "" {
		return value, true, nil
	}
	if !app.prompting {
		app.println(missing)
		return "", false, nil
	}
	value, err := app.UI.Input(prompt, "")
	if err != nil {
		if errors.Is(err, menu.ErrCancelled) {
			return "", false, nil
		}
		return "", false, err
	}
	if strings.TrimSpace(value) == "" {
		app.println(missing)
		return "", false, nil
	}
	return value, true, nil
}

// splitTrailing separates the last word from the rest: "Spy x Family 12"
// becomes ("Spy x Family", "12").
func splitTrailing(args []string) (string, string) {
	words := strings.Fields(strings.Join(args, " "))
	if len(words) < 2 {
		return fileutil.JoinWords(words), ""
	}
	return strings.Join(words[:len(words)-1], " "), words[len(words)-1]
}

// parseEpisodes accepts a non-negative integer.
func parseEpisodes(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// choose shows a Select and maps cancellation to ok=false.
func choose(app *App, title string, options []menu.Option) (int, bool, error) {
	idx, err := app.UI.Select(title, options)
	if err != nil {
		if errors.Is(err, menu.ErrCancelled) {
			return -1, false, nil
		}
		return -1, false, err
	}
	return idx, true, nil
}
