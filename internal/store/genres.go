package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const GenresFileName = "user_like_genre.json"

// KnownGenres is the AniList genre collection, in AniList spelling.
var KnownGenres = []string{
	"Action",
	"Adventure",
	"Comedy",
	"Drama",
	"Ecchi",
	"Fantasy",
	"Hentai",
	"Horror",
	"Mahou Shoujo",
	"Mecha",
	"Music",
	"Mystery",
	"Psychological",
	"Romance",
	"Sci-Fi",
	"Slice of Life",
	"Sports",
	"Supernatural",
	"Thriller",
}

var genreAliases = map[string]string{
	"scifi":           "Sci-Fi",
	"sci fi":          "Sci-Fi",
	"science fiction": "Sci-Fi",
	"slice-of-life":   "Slice of Life",
	"sol":             "Slice of Life",
	"magical girl":    "Mahou Shoujo",
	"mahou-shoujo":    "Mahou Shoujo",
	"sport":           "Sports",
}

var knownGenreIndex = func() map[string]string {
	index := make(map[string]string, len(KnownGenres)+len(genreAliases))
	for _, g := range KnownGenres {
		index[strings.ToLower(g)] = g
	}
	for alias, g := range genreAliases {
		index[alias] = g
	}
	return index
}()

// NormalizeGenre trims raw and maps it to the AniList spelling when it names a
// known genre. Unknown genres keep the trimmed caller spelling.
func NormalizeGenre(raw string) string {
	trimmed := strings.Join(strings.Fields(raw), " ")
	if canonical, ok := knownGenreIndex[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// IsKnownGenre reports whether raw normalizes to an AniList genre.
func IsKnownGenre(raw string) bool {
	_, ok := knownGenreIndex[strings.ToLower(NormalizeGenre(raw))]
	return ok
}

// GenreList is the on-disk shape of user_like_genre.json.
type GenreList []string

// UnmarshalJSON tolerates non-string scalars written by older versions.
func (g *GenreList) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(GenreList, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case nil:
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	*g = out
	return nil
}

func migrateGenres(g *GenreList) {
	seen := make(map[string]struct{}, len(*g))
	out := make(GenreList, 0, len(*g))
	for _, raw := range *g {
		genre := NormalizeGenre(raw)
		if genre == "" {
			continue
		}
		key := strings.ToLower(genre)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, genre)
	}
	*g = out
}

func NewGenresFile(dataDir string) *JSONFile[GenreList] {
	return &JSONFile[GenreList]{
		Path:    filepath.Join(dataDir, GenresFileName),
		Default: func() GenreList { return GenreList{} },
		Migrate: migrateGenres,
	}
}

// Genres manages the user's liked genres.
type Genres struct {
	repo   Repository[GenreList]
	logger *zap.Logger
}

func NewGenres(repo Repository[GenreList], logger *zap.Logger) *Genres {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Genres{repo: repo, logger: logger}
}

func OpenGenres(dataDir string, logger *zap.Logger) *Genres {
	return NewGenres(NewGenresFile(dataDir), logger)
}

func (g *Genres) load() (GenreList, error) {
	list, err := g.repo.Load()
	if err != nil && IsCorrupt(err) {
		g.logger.Warn("genre list unreadable, starting empty", zap.Error(err))
		return GenreList{}, nil
	}
	return list, err
}

// List returns the liked genres in insertion order.
func (g *Genres) List() ([]string, error) {
	list, err := g.load()
	if err != nil {
		return nil, err
	}
	return []string(list), nil
}

// Add normalizes and appends genres that are not already present. It returns
// the genres actually added. Nothing is written when none are new.
func (g *Genres) Add(genres ...string) ([]string, error) {
	list, err := g.load()
	if err != nil {
		return nil, err
	}

	var added []string
	for _, raw := range genres {
		genre := NormalizeGenre(raw)
		if genre == "" {
			continue
		}
		if indexByTitle(list, identity, genre) >= 0 {
			continue
		}
		list = append(list, genre)
		added = append(added, genre)
	}
	if len(added) == 0 {
		nonBlank := false
		for _, raw := range genres {
			if strings.TrimSpace(raw) != "" {
				nonBlank = true
				break
			}
		}
		if !nonBlank {
			return nil, ErrEmptyGenre
		}
		return nil, nil
	}

	if err := g.repo.Save(list); err != nil {
		return nil, fmt.Errorf("failed to save genres: %w", err)
	}
	g.logger.Debug("liked genres added", zap.Strings("genres", added))
	return added, nil
}

// Remove deletes genre using the same normalization as Add.
func (g *Genres) Remove(genre string) (string, error) {
	genre = NormalizeGenre(genre)
	if genre == "" {
		return "", ErrEmptyGenre
	}
	list, err := g.load()
	if err != nil {
		return "", err
	}
	i := indexByTitle(list, identity, genre)
	if i < 0 {
		return "", ErrNotFound
	}

	removed := list[i]
	list = removeAt(list, i)
	if err := g.repo.Save(list); err != nil {
		return "", fmt.Errorf("failed to save genres: %w", err)
	}
	return removed, nil
}

// Clear always persists an empty array.
func (g *Genres) Clear() error {
	if err := g.repo.Save(GenreList{}); err != nil {
		return fmt.Errorf("failed to save genres: %w", err)
	}
	return nil
}

func identity(s string) string { return s }
