// Package actions defines the closed set of capabilities the assistant may
// invoke, how their arguments are decoded, and how they are executed.
package actions

import (
	"errors"
	"fmt"

	"github.com/kitsune-cli/kitsune/internal/player"
)

const (
	NameSaveGenres     = "save_liked_genres"
	NameAddToWatchlist = "add_to_watchlist"
	NameUpdateEpisodes = "update_episodes"
	NameListWatchlist  = "list_watchlist"
	NameAddToReadlist  = "add_to_readlist"
	NameWatchAnime     = "watch_anime"
	NameOpenWebSearch  = "open_web_search"
	NameQuit           = "quit_chat"
)

// legacyNames maps names stored in older histories to current ones.
var legacyNames = map[string]string{
	"get_user_like_genre":   NameSaveGenres,
	"add_to_watchlist_func": NameAddToWatchlist,
}

// ErrUnknownAction is returned by Decode for names outside the set.
var ErrUnknownAction = errors.New("unknown action")

// ArgError reports a malformed or missing argument.
type ArgError struct {
	Action string
	Arg    string
	Reason string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("%s: argument %q %s", e.Action, e.Arg, e.Reason)
}

// Action is one decoded invocation. The set of implementations is closed.
type Action interface {
	Name() string
	isAction()
}

type SaveGenres struct {
	Genres []string
}

type AddToWatchlist struct {
	Title string
}

type UpdateEpisodes struct {
	Title    string
	Episodes int
}

type ListWatchlist struct{}

type AddToReadlist struct {
	Title string
}

type WatchAnime struct {
	Title string
}

type OpenWebSearch struct {
	Query string
	Kind  player.SearchKind
}

type Quit struct{}

func (SaveGenres) Name() string     { return NameSaveGenres }
func (AddToWatchlist) Name() string { return NameAddToWatchlist }
func (UpdateEpisodes) Name() string { return NameUpdateEpisodes }
func (ListWatchlist) Name() string  { return NameListWatchlist }
func (AddToReadlist) Name() string  { return NameAddToReadlist }
func (WatchAnime) Name() string     { return NameWatchAnime }
func (OpenWebSearch) Name() string  { return NameOpenWebSearch }
func (Quit) Name() string           { return NameQuit }

func (SaveGenres) isAction()     {}
func (AddToWatchlist) isAction() {}
func (UpdateEpisodes) isAction() {}
func (ListWatchlist) isAction()  {}
func (AddToReadlist) isAction()  {}
func (WatchAnime) isAction()     {}
func (OpenWebSearch) isAction()  {}
func (Quit) isAction()           {}

// CanonicalName resolves legacy aliases.
func CanonicalName(name string) string {
	if canonical, ok := legacyNames[name]; ok {
		return canonical
	}
	return name
}

// Decode builds the typed action for name from model-supplied args.
func Decode(name string, args map[string]any) (Action, error) {
	a := argReader{action: CanonicalName(name), args: args}
	switch a.action {
	case NameSaveGenres:
		genres, err := a.stringList("genres")
		if err != nil {
			return nil, err
		}
		return SaveGenres{Genres: genres}, nil
	case NameAddToWatchlist:
		title, err := a.requiredString("anime_title")
		if err != nil {
			return nil, err
		}
		return AddToWatchlist{Title: title}, nil
	case NameUpdateEpisodes:
		title, err := a.requiredString("anime_title")
		if err != nil {
			return nil, err
		}
		episodes, err := a.nonNegativeInt("episodes")
		if err != nil {
			return nil, err
		}
		return UpdateEpisodes{Title: title, Episodes: episodes}, nil
	case NameListWatchlist:
		return ListWatchlist{}, nil
	case NameAddToReadlist:
		title, err := a.requiredString("manga_title")
		if err != nil {
			return nil, err
		}
		return AddToReadlist{Title: title}, nil
	case NameWatchAnime:
		title, err := a.requiredString("anime_title")
		if err != nil {
			return nil, err
		}
		return WatchAnime{Title: title}, nil
	case NameOpenWebSearch:
		query, err := a.requiredString("query")
		if err != nil {
			return nil, err
		}
		rawKind, err := a.optionalString("kind")
		if err != nil {
			return nil, err
		}
		kind, err := player.ParseSearchKind(rawKind)
		if err != nil {
			return nil, &ArgError{Action: a.action, Arg: "kind", Reason: "must be one of anime, manga, novel"}
		}
		return OpenWebSearch{Query: query, Kind: kind}, nil
	case NameQuit:
		return Quit{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
}
