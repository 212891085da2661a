package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
)

const WatchlistFileName = "watchlist.json"

// WatchEntry is one anime on the watchlist.
type WatchEntry struct {
	Title           string `json:"title"`
	EpisodesWatched int    `json:"episodes_watched"`
}

// UnmarshalJSON also accepts the legacy shape where an entry is a bare title.
func (e *WatchEntry) UnmarshalJSON(data []byte) error {
	var title string
	if err := json.Unmarshal(data, &title); err == nil {
		*e = WatchEntry{Title: title}
		return nil
	}
	type plain WatchEntry
	var entry plain
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}
	*e = WatchEntry(entry)
	return nil
}

// WatchlistFile is the on-disk shape of watchlist.json.
type WatchlistFile struct {
	Watchlist []WatchEntry `json:"watchlist"`
}

func migrateWatchlist(f *WatchlistFile) {
	if f.Watchlist == nil {
		f.Watchlist = []WatchEntry{}
	}
	kept := f.Watchlist[:0]
	for _, e := range f.Watchlist {
		if normalizeTitle(e.Title) == "" {
			continue
		}
		if e.EpisodesWatched < 0 {
			e.EpisodesWatched = 0
		}
		kept = append(kept, e)
	}
	f.Watchlist = kept
}

// NewWatchlistFile returns the JSON repository for dataDir/watchlist.json.
func NewWatchlistFile(dataDir string) *JSONFile[WatchlistFile] {
	return &JSONFile[WatchlistFile]{
		Path:    filepath.Join(dataDir, WatchlistFileName),
		Default: func() WatchlistFile { return WatchlistFile{Watchlist: []WatchEntry{}} },
		Migrate: migrateWatchlist,
	}
}

// Watchlist manages anime entries and their episode progress.
type Watchlist struct {
	repo   Repository[WatchlistFile]
	logger *zap.Logger
}

func NewWatchlist(repo Repository[WatchlistFile], logger *zap.Logger) *Watchlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watchlist{repo: repo, logger: logger}
}

// OpenWatchlist returns a Watchlist stored under dataDir.
func OpenWatchlist(dataDir string, logger *zap.Logger) *Watchlist {
	return NewWatchlist(NewWatchlistFile(dataDir), logger)
}

func (w *Watchlist) load() (WatchlistFile, error) {
	doc, err := w.repo.Load()
	if err != nil {
		if IsCorrupt(err) {
			w.logger.Warn("watchlist unreadable, starting empty", zap.Error(err))
			return doc, nil
		}
		return doc, err
	}
	return doc, nil
}

// Entries returns the watchlist in stored order.
func (w *Watchlist) Entries() ([]WatchEntry, error) {
	doc, err := w.load()
	if err != nil {
		return nil, err
	}
	return doc.Watchlist, nil
}

// Find looks an entry up by case-insensitive title.
func (w *Watchlist) Find(title string) (WatchEntry, bool, error) {
	doc, err := w.load()
	if err != nil {
		return WatchEntry{}, false, err
	}
	i := indexByTitle(doc.Watchlist, watchTitle, title)
	if i < 0 {
		return WatchEntry{}, false, nil
	}
	return doc.Watchlist[i], true, nil
}

// Add appends title with zero episodes watched. It returns ErrEmptyTitle or
// ErrDuplicate without touching the file.
func (w *Watchlist) Add(title string) (WatchEntry, error) {
	title = normalizeTitle(title)
	if title == "" {
		return WatchEntry{}, ErrEmptyTitle
	}

	doc, err := w.load()
	if err != nil {
		return WatchEntry{}, err
	}
	if i := indexByTitle(doc.Watchlist, watchTitle, title); i >= 0 {
		return doc.Watchlist[i], ErrDuplicate
	}

	entry := WatchEntry{Title: title}
	doc.Watchlist = append(doc.Watchlist, entry)
	if err := w.repo.Save(doc); err != nil {
		return WatchEntry{}, fmt.Errorf("failed to save watchlist: %w", err)
	}
	w.logger.Debug("watchlist entry added", zap.String("title", title))
	return entry, nil
}

// UpdateEpisodes sets the episode count of an existing entry.
func (w *Watchlist) UpdateEpisodes(title string, episodes int) (WatchEntry, error) {
	if episodes < 0 {
		return WatchEntry{}, ErrInvalidEpisodes
	}
	doc, err := w.load()
	if err != nil {
		return WatchEntry{}, err
	}
	i := indexByTitle(doc.Watchlist, watchTitle, title)
	if i < 0 {
		return WatchEntry{}, ErrNotFound
	}

	doc.Watchlist[i].EpisodesWatched = episodes
	if err := w.repo.Save(doc); err != nil {
		return WatchEntry{}, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return doc.Watchlist[i], nil
}

// Remove deletes an entry by title.
func (w *Watchlist) Remove(title string) (WatchEntry, error) {
	doc, err := w.load()
	if err != nil {
		return WatchEntry{}, err
	}
	i := indexByTitle(doc.Watchlist, watchTitle, title)
	if i < 0 {
		return WatchEntry{}, ErrNotFound
	}

	removed := doc.Watchlist[i]
	doc.Watchlist = removeAt(doc.Watchlist, i)
	if err := w.repo.Save(doc); err != nil {
		return WatchEntry{}, fmt.Errorf("failed to save watchlist: %w", err)
	}
	return removed, nil
}

func watchTitle(e WatchEntry) string { return e.Title }
