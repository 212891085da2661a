package store

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle      = errors.New("title is empty")
	ErrDuplicate       = errors.New("title already present")
	ErrNotFound        = errors.New("not found")
	ErrInvalidEpisodes = errors.New("episode count must be a non-negative integer")
	ErrEmptyGenre      = errors.New("genre is empty")
	ErrEmptyProgress   = errors.New("progress is empty")
)

// ListKind names a titled list for user-facing messages.
type ListKind struct {
	Name string // "watchlist"
	Noun string // "Anime"
}

var (
	WatchlistKind = ListKind{Name: "watchlist", Noun: "Anime"}
	ReadlistKind  = ListKind{Name: "readlist", Noun: "Manga"}
)

// AddMessage renders the outcome of an Add the way the assistant and the CLI
// report it.
func AddMessage(kind ListKind, title string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Added '%s' to your %s.", title, kind.Name)
	case errors.Is(err, ErrEmptyTitle):
		return fmt.Sprintf("%s title is empty.", kind.Noun)
	case errors.Is(err, ErrDuplicate):
		return fmt.Sprintf("'%s' is already in your %s.", title, kind.Name)
	default:
		return fmt.Sprintf("Failed to save %s: %v", kind.Name, err)
	}
}

// NotFoundMessage renders a lookup miss.
func NotFoundMessage(kind ListKind, title string) string {
	return fmt.Sprintf("'%s' not found in your %s.", title, kind.Name)
}
