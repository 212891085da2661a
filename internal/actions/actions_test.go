package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want Action
	}{
		{name: NameSaveGenres, args: map[string]any{"genres": []any{"Action", " ", "Slice of Life"}}, want: SaveGenres{Genres: []string{"Action", "Slice of Life"}}},
		{name: "get_user_like_genre", args: map[string]any{"genres": "Action, Drama"}, want: SaveGenres{Genres: []string{"Action", "Drama"}}},
		{name: NameAddToWatchlist, args: map[string]any{"anime_title": " Frieren "}, want: AddToWatchlist{Title: "Frieren"}},
		{name: "add_to_watchlist_func", args: map[string]any{"anime_title": "Monster"}, want: AddToWatchlist{Title: "Monster"}},
		{name: NameUpdateEpisodes, args: map[string]any{"anime_title": "Frieren", "episodes": float64(12)}, want: UpdateEpisodes{Title: "Frieren", Episodes: 12}},
		{name: NameUpdateEpisodes, args: map[string]any{"anime_title": "Frieren", "episodes": "7"}, want: UpdateEpisodes{Title: "Frieren", Episodes: 7}},
		{name: NameListWatchlist, args: nil, want: ListWatchlist{}},
		{name: NameAddToReadlist, args: map[string]any{"manga_title": "Berserk"}, want: AddToReadlist{Title: "Berserk"}},
		{name: NameWatchAnime, args: map[string]any{"anime_title": "Mushishi"}, want: WatchAnime{Title: "Mushishi"}},
		{name: NameOpenWebSearch, args: map[string]any{"query": "Overlord"}, want: OpenWebSearch{Query: "Overlord", Kind: player.SearchAnime}},
		{name: NameOpenWebSearch, args: map[string]any{"query": "Overlord", "kind": "novel"}, want: OpenWebSearch{Query: "Overlord", Kind: player.SearchNovel}},
		{name: NameQuit, args: map[string]any{}, want: Quit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.name, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsMalformedArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		arg  string
	}{
		{name: NameAddToWatchlist, args: map[string]any{}, arg: "anime_title"},
		{name: NameAddToWatchlist, args: map[string]any{"anime_title": "  "}, arg: "anime_title"},
		{name: NameAddToWatchlist, args: map[string]any{"anime_title": []any{"x"}}, arg: "anime_title"},
		{name: NameSaveGenres, args: map[string]any{"genres": []any{" "}}, arg: "genres"},
		{name: NameSaveGenres, args: map[string]any{"genres": 3.0}, arg: "genres"},
		{name: NameUpdateEpisodes, args: map[string]any{"anime_title": "x", "episodes": -1.0}, arg: "episodes"},
		{name: NameUpdateEpisodes, args: map[string]any{"anime_title": "x", "episodes": 1.5}, arg: "episodes"},
		{name: NameUpdateEpisodes, args: map[string]any{"anime_title": "x"}, arg: "episodes"},
		{name: NameOpenWebSearch, args: map[string]any{"query": "x", "kind": "podcast"}, arg: "kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.arg, func(t *testing.T) {
			_, err := Decode(tt.name, tt.args)
			var argErr *ArgError
			require.True(t, errors.As(err, &argErr), "got %v", err)
			assert.Equal(t, tt.arg, argErr.Arg)
			assert.Equal(t, CanonicalName(tt.name), argErr.Action)
		})
	}
}

func TestDecodeUnknownAction(t *testing.T) {
	_, err := Decode("launch_rocket", nil)
	require.ErrorIs(t, err, ErrUnknownAction)
	assert.Contains(t, err.Error(), "launch_rocket")
}

func TestDeclarationsCoverEveryDecodableAction(t *testing.T) {
	seen := map[string]bool{}
	for _, decl := range Declarations() {
		require.False(t, seen[decl.Name], "duplicate declaration %s", decl.Name)
		seen[decl.Name] = true

		args := map[string]any{}
		for _, p := range decl.Params {
			switch p.Type {
			case TypeString:
				args[p.Name] = "value"
				if len(p.Enum) > 0 {
					args[p.Name] = p.Enum[0]
				}
			case TypeInteger:
				args[p.Name] = float64(1)
			case TypeStringArray:
				args[p.Name] = []any{"Action"}
			}
		}
		action, err := Decode(decl.Name, args)
		require.NoError(t, err, decl.Name)
		assert.Equal(t, decl.Name, action.Name())
	}
	assert.Len(t, seen, 8)
}

type fakePlayer struct {
	checkErr error
	fail     map[string]error
	watched  []string
}

func (p *fakePlayer) Check() error { return p.checkErr }

func (p *fakePlayer) Watch(_ context.Context, title string) error {
	if err := p.fail[title]; err != nil {
		return err
	}
	p.watched = append(p.watched, title)
	return nil
}

type fakeFinder struct {
	results []catalog.SearchResult
	err     error
}

func (f fakeFinder) SearchAnime(context.Context, string, int) ([]catalog.SearchResult, error) {
	return f.results, f.err
}

type fakeBrowser struct {
	queries []string
}

func (b *fakeBrowser) Search(_ context.Context, kind player.SearchKind, query string) (string, error) {
	b.queries = append(b.queries, string(kind)+":"+query)
	return player.SearchURL(kind, query), nil
}

func newStores(t *testing.T) (*store.Watchlist, *store.Readlist, *store.Genres) {
	t.Helper()
	dir := t.TempDir()
	return store.OpenWatchlist(dir, nil), store.OpenReadlist(dir, nil), store.OpenGenres(dir, nil)
}

func TestExecuteStoreActions(t *testing.T) {
	watch, read, genres := newStores(t)
	exec := NewExecutor(Deps{Watchlist: watch, Readlist: read, Genres: genres})
	ctx := context.Background()

	assert.Equal(t, Result{Text: "Your watchlist is empty."}, exec.Execute(ctx, ListWatchlist{}))
	assert.Equal(t, "Added 'Frieren' to your watchlist.", exec.Execute(ctx, AddToWatchlist{Title: "Frieren"}).Text)

	dup := exec.Execute(ctx, AddToWatchlist{Title: "frieren"})
	assert.Equal(t, "'Frieren' is already in your watchlist.", dup.Text)
	assert.False(t, dup.IsError)

	assert.Equal(t, "Updated 'Frieren' to 4 episodes watched.", exec.Execute(ctx, UpdateEpisodes{Title: "FRIEREN", Episodes: 4}).Text)
	missing := exec.Execute(ctx, UpdateEpisodes{Title: "Monster", Episodes: 1})
	assert.True(t, missing.IsError)
	assert.Equal(t, "'Monster' not found in your watchlist.", missing.Text)

	assert.Equal(t, "Your watchlist:\n- Frieren (Episodes watched: 4)", exec.Execute(ctx, ListWatchlist{}).Text)

	assert.Equal(t, "Added 'Berserk' to your readlist.", exec.Execute(ctx, AddToReadlist{Title: "Berserk"}).Text)

	assert.Equal(t, "Your genre preferences have been saved.", exec.Execute(ctx, SaveGenres{Genres: []string{"action", "Drama"}}).Text)
	list, err := genres.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Drama"}, list)
}

func TestExecuteQuit(t *testing.T) {
	res := NewExecutor(Deps{}).Execute(context.Background(), Quit{})
	assert.True(t, res.Quit)
	assert.Equal(t, map[string]any{"result": QuitResponse}, res.Response())
}

func TestExecuteWithoutCollaborators(t *testing.T) {
	res := NewExecutor(Deps{}).Execute(context.Background(), AddToWatchlist{Title: "x"})
	assert.True(t, res.IsError)
	assert.Equal(t, map[string]any{"error": res.Text}, res.Response())
}

func TestWatchAnimeLaunchesExactTitle(t *testing.T) {
	p := &fakePlayer{}
	res := NewExecutor(Deps{Player: p}).Execute(context.Background(), WatchAnime{Title: "Frieren"})
	assert.Equal(t, "Opening anime 'Frieren' to watch.", res.Text)
	assert.Equal(t, []string{"Frieren"}, p.watched)
}

func TestWatchAnimeMissingPlayer(t *testing.T) {
	p := &fakePlayer{checkErr: &player.NotInstalledError{Command: "ani-cli"}}
	res := NewExecutor(Deps{Player: p}).Execute(context.Background(), WatchAnime{Title: "Frieren"})
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text, "not installed")
	assert.Empty(t, p.watched)
}

func TestWatchAnimeSuggestsMatchWhenFallbackOff(t *testing.T) {
	p := &fakePlayer{fail: map[string]error{"Frieren beyond": errors.New("no results")}}
	finder := fakeFinder{results: []catalog.SearchResult{{Title: "Sousou no Frieren"}}}

	res := NewExecutor(Deps{Player: p, Finder: finder}).Execute(context.Background(), WatchAnime{Title: "Frieren beyond"})
	assert.Contains(t, res.Text, "closest match is 'Sousou no Frieren'")
	assert.Empty(t, p.watched, "nothing launches without fallback")
}

func TestWatchAnimeLaunchesMatchWhenFallbackOn(t *testing.T) {
	p := &fakePlayer{fail: map[string]error{"Frieren beyond": errors.New("no results")}}
	finder := fakeFinder{results: []catalog.SearchResult{{Title: "Sousou no Frieren"}}}

	res := NewExecutor(Deps{Player: p, Finder: finder, FallbackSearch: true}).Execute(context.Background(), WatchAnime{Title: "Frieren beyond"})
	assert.Equal(t, "Could not open 'Frieren beyond'. Opening closest match 'Sousou no Frieren' instead.", res.Text)
	assert.Equal(t, []string{"Sousou no Frieren"}, p.watched)
}

func TestWatchAnimeNoMatch(t *testing.T) {
	p := &fakePlayer{fail: map[string]error{"zzz": errors.New("no results")}}
	res := NewExecutor(Deps{Player: p, Finder: fakeFinder{}, FallbackSearch: true}).Execute(context.Background(), WatchAnime{Title: "zzz"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Could not find anime 'zzz'.", res.Text)
}

func TestOpenWebSearch(t *testing.T) {
	b := &fakeBrowser{}
	res := NewExecutor(Deps{Browser: b}).Execute(context.Background(), OpenWebSearch{Query: "Berserk", Kind: player.SearchManga})
	assert.False(t, res.IsError)
	assert.Contains(t, res.Text, "https://myanimelist.net/manga.php?q=Berserk")
	assert.Equal(t, []string{"manga:Berserk"}, b.queries)
}
