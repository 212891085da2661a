package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatchlistAddRejectsDuplicateAnyCase(t *testing.T) {
	dir := t.TempDir()
	w := OpenWatchlist(dir, nil)

	_, err := w.Add("Frieren")
	require.NoError(t, err)

	_, err = w.Add("  frieren ")
	require.ErrorIs(t, err, ErrDuplicate)

	entries, err := w.Entries()
	require.NoError(t, err)
	assert.Equal(t, []WatchEntry{{Title: "Frieren"}}, entries)
}

func TestWatchlistAddRejectsBlankTitleWithoutWrite(t *testing.T) {
	dir := t.TempDir()
	w := OpenWatchlist(dir, nil)

	_, err := w.Add("   \t")
	require.ErrorIs(t, err, ErrEmptyTitle)

	_, statErr := os.Stat(filepath.Join(dir, WatchlistFileName))
	assert.True(t, os.IsNotExist(statErr), "blank add must not create the store file")
}

func TestWatchlistUpdateMissingLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	w := OpenWatchlist(dir, nil)
	_, err := w.Add("Mushishi")
	require.NoError(t, err)

	path := filepath.Join(dir, WatchlistFileName)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = w.UpdateEpisodes("Monster", 3)
	require.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestWatchlistUpdateEpisodes(t *testing.T) {
	w := OpenWatchlist(t.TempDir(), nil)
	_, err := w.Add("Frieren")
	require.NoError(t, err)

	entry, err := w.UpdateEpisodes("FRIEREN", 12)
	require.NoError(t, err)
	assert.Equal(t, WatchEntry{Title: "Frieren", EpisodesWatched: 12}, entry)

	_, err = w.UpdateEpisodes("Frieren", -1)
	require.ErrorIs(t, err, ErrInvalidEpisodes)

	found, ok, err := w.Find("frieren")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, found.EpisodesWatched)
}

func TestWatchlistRemove(t *testing.T) {
	w := OpenWatchlist(t.TempDir(), nil)
	for _, title := range []string{"A", "B", "C"} {
		_, err := w.Add(title)
		require.NoError(t, err)
	}

	removed, err := w.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, "B", removed.Title)

	_, err = w.Remove("b")
	require.ErrorIs(t, err, ErrNotFound)

	entries, err := w.Entries()
	require.NoError(t, err)
	assert.Equal(t, []WatchEntry{{Title: "A"}, {Title: "C"}}, entries)
}

func TestWatchlistLoadsLegacyBareStrings(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, WatchlistFileName), `{"watchlist": ["Naruto", {"title": "Bleach", "episodes_watched": 4}]}`)

	entries, err := OpenWatchlist(dir, nil).Entries()
	require.NoError(t, err)
	want := []WatchEntry{{Title: "Naruto"}, {Title: "Bleach", EpisodesWatched: 4}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchlistMatchesStoredTitlesWithExtraSpaces(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, WatchlistFileName), `{"watchlist": [{"title": "Spy  x Family", "episodes_watched": 2}]}`)
	w := OpenWatchlist(dir, nil)

	_, err := w.Add("spy x family")
	require.ErrorIs(t, err, ErrDuplicate)

	entry, err := w.UpdateEpisodes("Spy x Family", 5)
	require.NoError(t, err)
	assert.Equal(t, WatchEntry{Title: "Spy  x Family", EpisodesWatched: 5}, entry)

	_, err = w.Remove("Spy x Family")
	require.NoError(t, err)
	entries, err := w.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadlistMatchesStoredTitlesWithExtraSpaces(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, ReadlistFileName), `{"readlist": [{"title": " Vinland   Saga ", "progress": "12"}]}`)
	r := OpenReadlist(dir, nil)

	_, err := r.Add("Vinland Saga")
	require.ErrorIs(t, err, ErrDuplicate)

	entry, err := r.UpdateProgress("vinland saga", "13")
	require.NoError(t, err)
	assert.Equal(t, "13", entry.Progress)
}

func TestLoadDropsEntriesWithoutTitle(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, WatchlistFileName), `{"watchlist": [null, {"title": "Bleach"}, {"title": "   ", "episodes_watched": 3}]}`)
	mustWriteFile(t, filepath.Join(dir, ReadlistFileName), `{"readlist": [null, {"title": "Berserk", "progress": ""}]}`)

	watched, err := OpenWatchlist(dir, nil).Entries()
	require.NoError(t, err)
	assert.Equal(t, []WatchEntry{{Title: "Bleach"}}, watched)

	read, err := OpenReadlist(dir, nil).Entries()
	require.NoError(t, err)
	assert.Equal(t, []ReadEntry{{Title: "Berserk", Progress: "0"}}, read)
}

func TestReadlistRejectsBlankProgress(t *testing.T) {
	r := OpenReadlist(t.TempDir(), nil)
	_, err := r.Add("Berserk")
	require.NoError(t, err)

	_, err = r.UpdateProgress("Berserk", "   ")
	require.ErrorIs(t, err, ErrEmptyProgress)

	entries, err := r.Entries()
	require.NoError(t, err)
	assert.Equal(t, []ReadEntry{{Title: "Berserk", Progress: "0"}}, entries)
}

func TestCorruptStoreLogsAndStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, WatchlistFileName), `{"watchlist": [`)

	core, logs := observer.New(zap.WarnLevel)
	w := OpenWatchlist(dir, zap.New(core))

	entries, err := w.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "watchlist unreadable")

	_, err = w.Add("Frieren")
	require.NoError(t, err)
	entries, err = w.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONFileReportsCorruptError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	mustWriteFile(t, path, `{"readlist": 5}`)

	repo := NewReadlistFile(dir)
	repo.Path = path
	doc, err := repo.Load()

	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, path, corrupt.Path)
	assert.True(t, IsCorrupt(err))
	assert.NotNil(t, doc.Readlist)
	assert.Empty(t, doc.Readlist)
}

func TestJSONFileBlankFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, GenresFileName), "  \n")

	list, err := NewGenresFile(dir).Load()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	watch := WatchlistFile{Watchlist: []WatchEntry{{Title: "Frieren", EpisodesWatched: 3}, {Title: "Mushishi"}}}
	require.NoError(t, NewWatchlistFile(dir).Save(watch))
	gotWatch, err := NewWatchlistFile(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, watch, gotWatch)

	read := ReadlistFile{Readlist: []ReadEntry{{Title: "Berserk", Progress: "vol 3"}}}
	require.NoError(t, NewReadlistFile(dir).Save(read))
	gotRead, err := NewReadlistFile(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, read, gotRead)

	genres := GenreList{"Action", "Slice of Life", "Iyashikei"}
	require.NoError(t, NewGenresFile(dir).Save(genres))
	gotGenres, err := NewGenresFile(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, genres, gotGenres)
}

func TestWatchlistFileShape(t *testing.T) {
	dir := t.TempDir()
	_, err := OpenWatchlist(dir, nil).Add("Frieren")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, WatchlistFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"watchlist":[{"title":"Frieren","episodes_watched":0}]}`, string(data))
}

func TestReadlistLifecycle(t *testing.T) {
	r := OpenReadlist(t.TempDir(), nil)

	entry, err := r.Add("Vagabond")
	require.NoError(t, err)
	assert.Equal(t, "0", entry.Progress)

	_, err = r.Add("VAGABOND")
	require.ErrorIs(t, err, ErrDuplicate)

	entry, err = r.UpdateProgress("vagabond", " ch 120 ")
	require.NoError(t, err)
	assert.Equal(t, "ch 120", entry.Progress)

	_, err = r.UpdateProgress("Monster", "1")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = r.Remove("Vagabond")
	require.NoError(t, err)
	entries, err := r.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNormalizeGenre(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "  slice of life ", want: "Slice of Life"},
		{raw: "ACTION", want: "Action"},
		{raw: "scifi", want: "Sci-Fi"},
		{raw: "magical  girl", want: "Mahou Shoujo"},
		{raw: " Iyashikei ", want: "Iyashikei"},
		{raw: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGenre(tt.raw))
		})
	}
	assert.True(t, IsKnownGenre("sci fi"))
	assert.False(t, IsKnownGenre("Iyashikei"))
}

func TestGenresAddDeduplicatesAcrossCase(t *testing.T) {
	g := OpenGenres(t.TempDir(), nil)

	added, err := g.Add("action", "Comedy", "ACTION", "  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Comedy"}, added)

	added, err = g.Add("comedy")
	require.NoError(t, err)
	assert.Empty(t, added)

	_, err = g.Add(" ", "")
	require.ErrorIs(t, err, ErrEmptyGenre)

	list, err := g.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Comedy"}, list)
}

func TestGenresRemove(t *testing.T) {
	g := OpenGenres(t.TempDir(), nil)
	_, err := g.Add("Action", "Slice of Life")
	require.NoError(t, err)

	removed, err := g.Remove("slice of life")
	require.NoError(t, err)
	assert.Equal(t, "Slice of Life", removed)

	_, err = g.Remove("Horror")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGenresClearAlwaysWritesEmptyArray(t *testing.T) {
	for _, prior := range []string{"", `["Action","Drama"]`, `not json`} {
		dir := t.TempDir()
		path := filepath.Join(dir, GenresFileName)
		if prior != "" {
			mustWriteFile(t, path, prior)
		}

		require.NoError(t, OpenGenres(dir, nil).Clear())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	}
}

func TestGenresLoadMigratesLegacyValues(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, GenresFileName), `["action", "Action", " drama ", null, 42]`)

	list, err := OpenGenres(dir, nil).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Drama", "42"}, list)
}

func TestAddMessage(t *testing.T) {
	assert.Equal(t, "Added 'Frieren' to your watchlist.", AddMessage(WatchlistKind, "Frieren", nil))
	assert.Equal(t, "Anime title is empty.", AddMessage(WatchlistKind, "", ErrEmptyTitle))
	assert.Equal(t, "'Berserk' is already in your readlist.", AddMessage(ReadlistKind, "Berserk", ErrDuplicate))
	assert.Equal(t, "'X' not found in your watchlist.", NotFoundMessage(WatchlistKind, "X"))
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
