package cli

import (
	"fmt"

	"github.com/kitsune-cli/kitsune/internal/config"
	"github.com/kitsune-cli/kitsune/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootSwitches are the single-flag operations of the root command, in the
// order they are checked.
var rootSwitches = []struct {
	name      string
	shorthand string
	usage     string
	run       handler
}{
	{"search", "s", "Search for an anime", RunSearch},
	{"recommend", "", "Get anime recommendations (legacy: -rcm)", RunRecommend},
	{"add", "a", "Add an anime to your watchlist", RunAdd},
	{"update", "u", "Update episodes watched: <anime> <episodes>", RunUpdate},
	{"list", "l", "List your watchlist (legacy: -ls)", RunList},
	{"chat", "c", "Chat with the assistant", RunChat},
	{"watch", "w", "Watch an anime", RunWatch},
	{"read", "r", "Search for a light novel", RunRead},
	{"genre", "g", "Manage your preferred genres", RunGenreMenu},
}

type rootRunner struct {
	version    string
	opts       []Option
	configPath string
	dataDir    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewRootCommand(version string, opts ...Option) *cobra.Command {
	r := &rootRunner{version: version, opts: opts}

	rootCmd := &cobra.Command{
		Use:   "kitsune [flags] [title...]",
		Short: "Search, track and get recommendations for anime and manga",
		Long: `kitsune keeps your anime watchlist and manga readlist in local JSON files,
searches MyAnimeList through Jikan, recommends popular anime for the genres
you like through AniList, and chats with a Gemini assistant that can update
your lists and start ani-cli for you.

Run without arguments for the interactive menu.

Example: kitsune -s Silent Witch`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		PersistentPreRunE: r.setup,
		RunE:              r.wrap(runRoot),
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&r.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/kitsune/config.yaml)")
	pf.StringVar(&r.dataDir, "data-dir", "", "Directory holding the watchlist, readlist, genres and chat history")
	pf.BoolVarP(&r.verbose, "verbose", "v", false, "Enable debug logging")

	names := make([]string, 0, len(rootSwitches))
	for _, s := range rootSwitches {
		rootCmd.Flags().BoolP(s.name, s.shorthand, false, s.usage)
		names = append(names, s.name)
	}
	rootCmd.MarkFlagsMutuallyExclusive(names...)
	rootCmd.Flags().Bool("json", false, "Print the watchlist as JSON (with --list)")

	searchCmd := &cobra.Command{
		Use:   "search <title...>",
		Short: "Search for an anime, then watch it, open it or add it",
		RunE:  r.wrap(RunSearch),
	}
	searchCmd.Flags().Int("limit", 0, "Maximum number of results (default from config)")

	recommendCmd := &cobra.Command{
		Use:   "recommend [genre,...]",
		Short: "Recommend popular anime for your genres or your watchlist",
		RunE:  r.wrap(RunRecommend),
	}
	recommendCmd.Flags().String("mode", "", "each|combined|both|watchlist (asks when omitted)")
	recommendCmd.Flags().Bool("save", false, "Save the result to recommendations.txt without asking")

	addCmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add an anime to your watchlist",
		RunE:  r.wrap(RunAdd),
	}

	updateCmd := &cobra.Command{
		Use:   "update <title...> <episodes>",
		Short: "Set how many episodes of an anime you have watched",
		RunE:  r.wrap(RunUpdate),
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your watchlist",
		Args:    cobra.NoArgs,
		RunE:    r.wrap(RunList),
	}
	listCmd.Flags().Bool("json", false, "Print machine-readable output")

	removeCmd := &cobra.Command{
		Use:     "remove <title...>",
		Aliases: []string{"rm"},
		Short:   "Remove an anime from your watchlist",
		RunE:    r.wrap(RunRemove),
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the anime assistant",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunChat),
	}

	watchCmd := &cobra.Command{
		Use:   "watch <title...>",
		Short: "Watch an anime with ani-cli",
		RunE:  r.wrap(RunWatch),
	}

	readCmd := &cobra.Command{
		Use:   "read <title...>",
		Short: "Search the web for a light novel",
		RunE:  r.wrap(RunRead),
	}

	infoCmd := &cobra.Command{
		Use:   "info <title...>",
		Short: "Show AniList details for an anime",
		RunE:  r.wrap(RunInfo),
	}

	findCmd := &cobra.Command{
		Use:   "find <words...>",
		Short: "Find titles on your watchlist and readlist",
		RunE:  r.wrap(RunFind),
	}
	findCmd.Flags().Int("limit", 0, "Maximum number of matches (default from config)")

	genreCmd := &cobra.Command{
		Use:   "genre",
		Short: "Manage your preferred genres",
		RunE:  r.wrap(RunGenreMenu),
	}
	genreAddCmd := &cobra.Command{
		Use:   "add <genre...>",
		Short: "Add preferred genres",
		RunE:  r.wrap(RunGenreAdd),
	}
	genreRemoveCmd := &cobra.Command{
		Use:   "remove <genre>",
		Short: "Remove a preferred genre",
		RunE:  r.wrap(RunGenreRemove),
	}
	genreListCmd := &cobra.Command{
		Use:   "list",
		Short: "List preferred genres",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunGenreList),
	}
	genreClearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all preferred genres",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunGenreClear),
	}
	genreClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	genreCmd.AddCommand(genreAddCmd, genreRemoveCmd, genreListCmd, genreClearCmd)

	mangaCmd := &cobra.Command{
		Use:   "manga",
		Short: "Search manga and manage your readlist",
		RunE:  r.wrap(RunMangaMenu),
	}
	mangaSearchCmd := &cobra.Command{
		Use:   "search <title...>",
		Short: "Search for a manga, then open it or add it to your readlist",
		RunE:  r.wrap(RunMangaSearch),
	}
	mangaSearchCmd.Flags().Int("limit", 0, "Maximum number of results (default from config)")
	mangaAddCmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a manga to your readlist",
		RunE:  r.wrap(RunMangaAdd),
	}
	mangaListCmd := &cobra.Command{
		Use:   "list",
		Short: "List your readlist",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunMangaList),
	}
	mangaListCmd.Flags().Bool("json", false, "Print machine-readable output")
	mangaProgressCmd := &cobra.Command{
		Use:   "progress <title...> <progress>",
		Short: "Record how far you have read",
		RunE:  r.wrap(RunMangaProgress),
	}
	mangaRemoveCmd := &cobra.Command{
		Use:   "remove <title...>",
		Short: "Remove a manga from your readlist",
		RunE:  r.wrap(RunMangaRemove),
	}
	mangaRecommendCmd := &cobra.Command{
		Use:   "recommend [keyword...]",
		Short: "List top manga for a keyword",
		RunE:  r.wrap(RunMangaRecommend),
	}
	mangaCmd.AddCommand(mangaSearchCmd, mangaAddCmd, mangaListCmd, mangaProgressCmd, mangaRemoveCmd, mangaRecommendCmd)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunConfigInit),
	}
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunConfigShow),
	}
	configCmd.AddCommand(configInitCmd, configShowCmd)

	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the catalog response cache",
	}
	cachePruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete expired cached responses",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunCachePrune),
	}
	cacheCmd.AddCommand(cachePruneCmd)

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the config, data files, API key and player",
		Args:  cobra.NoArgs,
		RunE:  r.wrap(RunDoctor),
	}
	doctorCmd.Flags().Bool("json", false, "Print machine-readable doctor output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kitsune %s\n", version)
		},
	}

	rootCmd.AddCommand(
		searchCmd,
		recommendCmd,
		addCmd,
		updateCmd,
		listCmd,
		removeCmd,
		chatCmd,
		watchCmd,
		readCmd,
		infoCmd,
		findCmd,
		genreCmd,
		mangaCmd,
		configCmd,
		cacheCmd,
		doctorCmd,
		versionCmd,
	)

	return rootCmd
}

// setup loads the config and builds the logger before any command runs.
func (r *rootRunner) setup(cmd *cobra.Command, args []string) error {
	path := r.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if r.dataDir != "" {
		cfg.DataDir = r.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: r.verbose,
	})
	if err != nil {
		return err
	}
	logger.Debug("config loaded", zap.String("path", path), zap.String("data_dir", cfg.DataDir))

	r.configPath = path
	r.cfg = cfg
	r.logger = logger
	return nil
}

func (r *rootRunner) wrap(h handler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app := newApp(cmd, r.cfg, r.configPath, r.logger, r.opts)
		defer app.Close()
		return h(cmd, app, args)
	}
}

func runRoot(cmd *cobra.Command, app *App, args []string) error {
	for _, s := range rootSwitches {
		on, err := OptionalBoolFlag(cmd, s.name, false)
		if err != nil {
			return err
		}
		if on {
			return s.run(cmd, app, args)
		}
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return RunMainMenu(cmd, app)
}
