package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/kitsune-cli/kitsune/internal/store"
	"go.uber.org/zap"
)

const QuitResponse = "Chat ended by user request."

// Result is what an executed action reports back to the user and the model.
type Result struct {
	Text    string
	Quit    bool
	IsError bool
}

// Response is the payload sent back to the model.
func (r Result) Response() map[string]any {
	if r.IsError {
		return map[string]any{"error": r.Text}
	}
	return map[string]any{"result": r.Text}
}

// ErrorResult wraps a decode or execution failure for the model.
func ErrorResult(err error) Result {
	return Result{Text: err.Error(), IsError: true}
}

type Watchlist interface {
	Add(title string) (store.WatchEntry, error)
	UpdateEpisodes(title string, episodes int) (store.WatchEntry, error)
	Entries() ([]store.WatchEntry, error)
}

type Readlist interface {
	Add(title string) (store.ReadEntry, error)
}

type Genres interface {
	Add(genres ...string) ([]string, error)
}

type Player interface {
	Check() error
	Watch(ctx context.Context, title string) error
}

type Browser interface {
	Search(ctx context.Context, kind player.SearchKind, query string) (string, error)
}

// TitleFinder resolves the closest catalog match when a player launch fails.
type TitleFinder interface {
	SearchAnime(ctx context.Context, query string, limit int) ([]catalog.SearchResult, error)
}

// Deps are the collaborators actions act on. Nil collaborators make the
// matching actions report that the capability is unavailable.
type Deps struct {
	Watchlist Watchlist
	Readlist  Readlist
	Genres    Genres
	Player    Player
	Browser   Browser
	Finder    TitleFinder
	Logger    *zap.Logger
	// FallbackSearch launches the closest catalog match when the exact
	// title fails to play. Off, the match is only suggested.
	FallbackSearch bool
}

// Executor runs decoded actions.
type Executor struct {
	deps   Deps
	logger *zap.Logger
}

func NewExecutor(deps Deps) *Executor {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{deps: deps, logger: logger}
}

// Execute runs one action synchronously.
func (e *Executor) Execute(ctx context.Context, action Action) Result {
	e.logger.Debug("executing action", zap.String("action", action.Name()))

	switch a := action.(type) {
	case SaveGenres:
		return e.saveGenres(a)
	case AddToWatchlist:
		return e.addToWatchlist(a)
	case UpdateEpisodes:
		return e.updateEpisodes(a)
	case ListWatchlist:
		return e.listWatchlist()
	case AddToReadlist:
		return e.addToReadlist(a)
	case WatchAnime:
		return e.watchAnime(ctx, a)
	case OpenWebSearch:
		return e.openWebSearch(ctx, a)
	case Quit:
		return Result{Text: QuitResponse, Quit: true}
	default:
		return ErrorResult(fmt.Errorf("%w: %s", ErrUnknownAction, action.Name()))
	}
}

func unavailable(what string) Result {
	return Result{Text: what + " is not available in this session.", IsError: true}
}

func (e *Executor) saveGenres(a SaveGenres) Result {
	if e.deps.Genres == nil {
		return unavailable("Genre storage")
	}
	added, err := e.deps.Genres.Add(a.Genres...)
	if err != nil {
		if errors.Is(err, store.ErrEmptyGenre) {
			return Result{Text: "No genres were given.", IsError: true}
		}
		return Result{Text: fmt.Sprintf("Failed to save genre preferences: %v", err), IsError: true}
	}
	e.logger.Debug("genres saved", zap.Strings("added", added))
	return Result{Text: "Your genre preferences have been saved."}
}

func (e *Executor) addToWatchlist(a AddToWatchlist) Result {
	if e.deps.Watchlist == nil {
		return unavailable("The watchlist")
	}
	entry, err := e.deps.Watchlist.Add(a.Title)
	title := strings.TrimSpace(a.Title)
	if entry.Title != "" {
		title = entry.Title
	}
	return Result{
		Text:    store.AddMessage(store.WatchlistKind, title, err),
		IsError: err != nil && !errors.Is(err, store.ErrDuplicate),
	}
}

func (e *Executor) updateEpisodes(a UpdateEpisodes) Result {
	if e.deps.Watchlist == nil {
		return unavailable("The watchlist")
	}
	entry, err := e.deps.Watchlist.UpdateEpisodes(a.Title, a.Episodes)
	switch {
	case err == nil:
		return Result{Text: fmt.Sprintf("Updated '%s' to %d episodes watched.", entry.Title, entry.EpisodesWatched)}
	case errors.Is(err, store.ErrNotFound):
		return Result{Text: store.NotFoundMessage(store.WatchlistKind, a.Title), IsError: true}
	case errors.Is(err, store.ErrInvalidEpisodes):
		return Result{Text: "Episode count must be a non-negative integer.", IsError: true}
	default:
		return Result{Text: fmt.Sprintf("Failed to save watchlist: %v", err), IsError: true}
	}
}

func (e *Executor) listWatchlist() Result {
	if e.deps.Watchlist == nil {
		return unavailable("The watchlist")
	}
	entries, err := e.deps.Watchlist.Entries()
	if err != nil {
		return Result{Text: fmt.Sprintf("Failed to read watchlist: %v", err), IsError: true}
	}
	return Result{Text: FormatWatchlist(entries)}
}

// FormatWatchlist renders the watchlist the way the list command prints it.
func FormatWatchlist(entries []store.WatchEntry) string {
	if len(entries) == 0 {
		return "Your watchlist is empty."
	}
	var b strings.Builder
	b.WriteString("Your watchlist:")
	for _, entry := range entries {
		fmt.Fprintf(&b, "\n- %s (Episodes watched: %d)", entry.Title, entry.EpisodesWatched)
	}
	return b.String()
}

func (e *Executor) addToReadlist(a AddToReadlist) Result {
	if e.deps.Readlist == nil {
		return unavailable("The readlist")
	}
	entry, err := e.deps.Readlist.Add(a.Title)
	title := strings.TrimSpace(a.Title)
	if entry.Title != "" {
		title = entry.Title
	}
	return Result{
		Text:    store.AddMessage(store.ReadlistKind, title, err),
		IsError: err != nil && !errors.Is(err, store.ErrDuplicate),
	}
}

func (e *Executor) watchAnime(ctx context.Context, a WatchAnime) Result {
	if e.deps.Player == nil {
		return unavailable("The video player")
	}
	if err := e.deps.Player.Check(); err != nil {
		return ErrorResult(err)
	}

	err := e.deps.Player.Watch(ctx, a.Title)
	if err == nil {
		return Result{Text: fmt.Sprintf("Opening anime '%s' to watch.", a.Title)}
	}
	e.logger.Warn("player launch failed", zap.String("title", a.Title), zap.Error(err))

	match, ok := e.closestMatch(ctx, a.Title)
	if !ok {
		return Result{Text: fmt.Sprintf("Could not find anime '%s'.", a.Title), IsError: true}
	}
	if !e.deps.FallbackSearch {
		return Result{
			Text: fmt.Sprintf("Could not open '%s'. The closest match is '%s'. Ask the user whether to watch it instead.", a.Title, match),
		}
	}

	if err := e.deps.Player.Watch(ctx, match); err != nil {
		return Result{Text: fmt.Sprintf("Could not open '%s' or its closest match '%s': %v", a.Title, match, err), IsError: true}
	}
	return Result{Text: fmt.Sprintf("Could not open '%s'. Opening closest match '%s' instead.", a.Title, match)}
}

func (e *Executor) closestMatch(ctx context.Context, title string) (string, bool) {
	if e.deps.Finder == nil {
		return "", false
	}
	results, err := e.deps.Finder.SearchAnime(ctx, title, 1)
	if err != nil {
		e.logger.Warn("fallback search failed", zap.String("title", title), zap.Error(err))
		return "", false
	}
	for _, r := range results {
		if r.Title != "" && !strings.EqualFold(r.Title, title) {
			return r.Title, true
		}
	}
	return "", false
}

func (e *Executor) openWebSearch(ctx context.Context, a OpenWebSearch) Result {
	if e.deps.Browser == nil {
		return unavailable("The browser")
	}
	target, err := e.deps.Browser.Search(ctx, a.Kind, a.Query)
	if err != nil {
		return Result{Text: fmt.Sprintf("Could not open the browser for '%s': %v", a.Query, err), IsError: true}
	}
	return Result{Text: fmt.Sprintf("Opened a %s search for '%s' in the browser (%s).", a.Kind, a.Query, target)}
}
