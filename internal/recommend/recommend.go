package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPerGenre    = 5
	DefaultConcurrency = 4
	// watchlistTopGenres caps how many watchlist-implied genres feed the
	// combined query.
	watchlistTopGenres = 3
)

// ErrNoGenres is returned when there is nothing to recommend from.
var ErrNoGenres = errors.New("no genres to recommend from")

// Mode selects how liked genres are turned into queries.
type Mode int

const (
	ModeEach Mode = iota
	ModeCombined
	ModeBoth
	ModeWatchlist
)

var modeLabels = map[Mode]string{
	ModeEach:      "Each genre separately",
	ModeCombined:  "All genres combined",
	ModeBoth:      "Both",
	ModeWatchlist: "From my watchlist",
}

func (m Mode) String() string {
	if label, ok := modeLabels[m]; ok {
		return label
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{ModeEach, ModeCombined, ModeBoth, ModeWatchlist}
}

// ParseMode accepts the short names used on the command line.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "each", "":
		return ModeEach, nil
	case "combined", "all":
		return ModeCombined, nil
	case "both":
		return ModeBoth, nil
	case "watchlist":
		return ModeWatchlist, nil
	default:
		return 0, fmt.Errorf("unknown recommendation mode %q (want each, combined, both or watchlist)", raw)
	}
}

// Source is the catalog surface recommendations need; *catalog.AniList
// satisfies it.
type Source interface {
	ByGenres(ctx context.Context, genres []string, perPage int) ([]catalog.Media, error)
	TitleGenres(ctx context.Context, title string) ([]string, error)
}

// Group is the result of one genre query. A failed query keeps its slot with
// Err set so output order never depends on which calls failed.
type Group struct {
	Genres []string
	Media  []catalog.Media
	Err    error
}

// Label names the group the way the result headers print it.
func (g Group) Label() string {
	return strings.Join(g.Genres, ", ")
}

// Result is a full recommendation run.
type Result struct {
	Mode   Mode
	Genres []string
	Groups []Group
}

// Empty reports whether no group produced any media.
func (r Result) Empty() bool {
	for _, g := range r.Groups {
		if len(g.Media) > 0 {
			return false
		}
	}
	return true
}

// Recommender fans genre queries out to a Source.
type Recommender struct {
	source      Source
	perGenre    int
	concurrency int
	logger      *zap.Logger
}

type Option func(*Recommender)

func WithPerGenre(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.perGenre = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Recommender) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func New(source Source, opts ...Option) *Recommender {
	r := &Recommender{
		source:      source,
		perGenre:    DefaultPerGenre,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ForGenres runs the queries mode implies for genres. ModeWatchlist is not
// valid here; use FromWatchlist.
func (r *Recommender) ForGenres(ctx context.Context, mode Mode, genres []string) (Result, error) {
	if len(genres) == 0 {
		return Result{Mode: mode}, ErrNoGenres
	}

	var queries [][]string
	switch mode {
	case ModeEach:
		queries = eachGenre(genres)
	case ModeCombined:
		queries = [][]string{genres}
	case ModeBoth:
		queries = append(eachGenre(genres), genres)
	default:
		return Result{Mode: mode}, fmt.Errorf("mode %s needs watchlist titles", mode)
	}

	groups, err := r.run(ctx, queries)
	if err != nil {
		return Result{Mode: mode, Genres: genres}, err
	}
	return Result{Mode: mode, Genres: genres, Groups: groups}, nil
}

// FromWatchlist derives genres from the titles on the watchlist, ranks them
// by frequency and recommends popular anime for the top few. Titles already
// on the watchlist are left out of the results.
func (r *Recommender) FromWatchlist(ctx context.Context, titles []string) (Result, error) {
	genres, err := r.WatchlistGenres(ctx, titles)
	if err != nil {
		return Result{Mode: ModeWatchlist}, err
	}
	if len(genres) == 0 {
		return Result{Mode: ModeWatchlist}, ErrNoGenres
	}
	if len(genres) > watchlistTopGenres {
		genres = genres[:watchlistTopGenres]
	}

	groups, err := r.run(ctx, [][]string{genres})
	if err != nil {
		return Result{Mode: ModeWatchlist, Genres: genres}, err
	}

	seen := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		if key := strings.ToLower(strings.TrimSpace(title)); key != "" {
			seen[key] = struct{}{}
		}
	}
	for i := range groups {
		groups[i].Media = dropWatched(groups[i].Media, seen)
	}
	return Result{Mode: ModeWatchlist, Genres: genres, Groups: groups}, nil
}

// WatchlistGenres looks up the genres of every title and returns them
// ordered by how many titles carry them, ties broken by first appearance.
// Lookups that fail are logged and skipped.
func (r *Recommender) WatchlistGenres(ctx context.Context, titles []string) ([]string, error) {
	perTitle := make([][]string, len(titles))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)
	for i, title := range titles {
		eg.Go(func() error {
			genres, err := r.source.TitleGenres(egCtx, title)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn("genre lookup failed", zap.String("title", title), zap.Error(err))
				return nil
			}
			perTitle[i] = genres
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return rankGenres(perTitle), nil
}

func (r *Recommender) run(ctx context.Context, queries [][]string) ([]Group, error) {
	groups := make([]Group, len(queries))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.concurrency)
	for i, genres := range queries {
		groups[i].Genres = genres
		eg.Go(func() error {
			media, err := r.source.ByGenres(egCtx, genres, r.perGenre)
			if err != nil {
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn("recommendation query failed",
					zap.Strings("genres", genres),
					zap.Error(err),
				)
				groups[i].Err = err
				return nil
			}
			groups[i].Media = media
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

func eachGenre(genres []string) [][]string {
	out := make([][]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, []string{g})
	}
	return out
}

func rankGenres(perTitle [][]string) []string {
	counts := map[string]int{}
	first := map[string]int{}
	spelling := map[string]string{}
	order := 0
	for _, genres := range perTitle {
		for _, g := range genres {
			key := strings.ToLower(strings.TrimSpace(g))
			if key == "" {
				continue
			}
			if _, ok := first[key]; !ok {
				first[key] = order
				spelling[key] = strings.TrimSpace(g)
				order++
			}
			counts[key]++
		}
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return first[keys[i]] < first[keys[j]]
	})

	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, spelling[key])
	}
	return out
}

func dropWatched(media []catalog.Media, watched map[string]struct{}) []catalog.Media {
	out := media[:0:0]
	for _, m := range media {
		_, romaji := watched[strings.ToLower(m.Title.Romaji)]
		_, english := watched[strings.ToLower(m.Title.English)]
		if romaji || english {
			continue
		}
		out = append(out, m)
	}
	return out
}
