package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kitsune-cli/kitsune/internal/cache"
	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/chat"
	"github.com/kitsune-cli/kitsune/internal/config"
	"github.com/kitsune-cli/kitsune/internal/menu"
	"github.com/kitsune-cli/kitsune/internal/player"
	"github.com/kitsune-cli/kitsune/internal/recommend"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// UI is the interactive surface commands prompt through. *menu.Terminal
// satisfies it.
type UI interface {
	Select(title string, options []menu.Option) (int, error)
	Input(prompt, placeholder string) (string, error)
}

// App carries the collaborators of one command invocation.
type App struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Out        io.Writer
	Err        io.Writer
	UI         UI
	// Lines reads plain input when stdin is not a terminal.
	Lines chat.LineReader
	// Terminal is true when stdin and stdout are both terminals.
	Terminal bool

	Watchlist *store.Watchlist
	Readlist  *store.Readlist
	Genres    *store.Genres
	Player    *player.Player
	Browser   *player.Browser

	// prompting makes handlers ask for missing arguments instead of
	// printing usage hints. The main menu turns it on.
	prompting bool

	model   chat.Model
	jikan   *catalog.Jikan
	anilist *catalog.AniList
	cache   *cache.Cache
}

// Option customizes the App a command runs with.
type Option func(*App)

func WithUI(ui UI) Option {
	return func(a *App) { a.UI = ui }
}

func WithPlayer(p *player.Player) Option {
	return func(a *App) { a.Player = p }
}

func WithBrowser(b *player.Browser) Option {
	return func(a *App) { a.Browser = b }
}

// WithModel replaces the Gemini backend of the chat command.
func WithModel(m chat.Model) Option {
	return func(a *App) { a.model = m }
}

func newApp(cmd *cobra.Command, cfg *config.Config, configPath string, logger *zap.Logger, opts []Option) *App {
	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	app := &App{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
		Out:        out,
		Err:        cmd.ErrOrStderr(),
		Terminal:   isTerminal(in) && isTerminal(out),
		Watchlist:  store.OpenWatchlist(cfg.DataDir, logger),
		Readlist:   store.OpenReadlist(cfg.DataDir, logger),
		Genres:     store.OpenGenres(cfg.DataDir, logger),
		Player:     player.New(cfg.Watch.Player, player.WithLogger(logger)),
		Browser:    player.NewBrowser(),
	}
	app.Lines = chat.NewStreamReader(in, out)
	if app.Terminal {
		app.UI = &menu.Terminal{In: in, Out: out}
	} else {
		app.UI = &promptUI{lines: app.Lines, out: out}
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Close releases the response cache and flushes the logger.
func (a *App) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Logger.Debug("closing cache failed", zap.Error(err))
		}
		a.cache = nil
	}
	_ = a.Logger.Sync()
}

func (a *App) catalogOptions() catalog.Options {
	opts := catalog.Options{
		Timeout: a.Config.GetCatalogTimeout(),
		Logger:  a.Logger,
	}
	if a.Config.Cache.Enabled {
		if a.cache == nil {
			c, err := cache.Open(filepath.Join(a.Config.DataDir, cache.FileName), a.Config.GetCacheTTL(), a.Logger)
			if err != nil {
				a.Logger.Warn("response cache unavailable", zap.Error(err))
			} else {
				a.cache = c
			}
		}
		if a.cache != nil {
			opts.Cache = a.cache
		}
	}
	return opts
}

// Jikan returns the title search client, created on first use.
func (a *App) Jikan() *catalog.Jikan {
	if a.jikan == nil {
		a.jikan = catalog.NewJikan(a.Config.Catalog.JikanURL, a.catalogOptions())
	}
	return a.jikan
}

// AniList returns the GraphQL client, created on first use.
func (a *App) AniList() *catalog.AniList {
	if a.anilist == nil {
		a.anilist = catalog.NewAniList(a.Config.Catalog.AniListURL, a.catalogOptions())
	}
	return a.anilist
}

func (a *App) Recommender() *recommend.Recommender {
	return recommend.New(a.AniList(),
		recommend.WithPerGenre(a.Config.Recommend.PerGenre),
		recommend.WithConcurrency(a.Config.Recommend.Concurrency),
		recommend.WithLogger(a.Logger),
	)
}

// Model returns the chat backend.
func (a *App) Model(ctx context.Context) (chat.Model, error) {
	if a.model != nil {
		return a.model, nil
	}
	return chat.NewGemini(ctx, a.Config.APIKey, a.Config.Model, a.Logger)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.Out, args...)
}

func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
