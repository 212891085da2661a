package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/cache"
	"github.com/kitsune-cli/kitsune/internal/chat"
	"github.com/kitsune-cli/kitsune/internal/fileutil"
	"github.com/kitsune-cli/kitsune/internal/store"
	"github.com/spf13/cobra"
)

// RunDoctor checks the setup every feature depends on.
func RunDoctor(cmd *cobra.Command, app *App, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	dataDir := app.Config.DataDir
	summary := DoctorSummary{
		Mode:       "doctor",
		DataDir:    dataDir,
		ConfigPath: app.ConfigPath,
		Checks:     map[string]bool{},
		Counts:     map[string]int{},
	}

	_, statErr := os.Stat(app.ConfigPath)
	summary.Checks["config"] = statErr == nil
	if statErr != nil {
		summary.Suggestions = append(summary.Suggestions, "run kitsune config init")
	}

	summary.Checks["data_dir"] = dataDirWritable(dataDir)
	if !summary.Checks["data_dir"] {
		summary.Missing = append(summary.Missing, "writable data directory")
		summary.Suggestions = append(summary.Suggestions, "set data_dir or --data-dir to a writable directory")
	}

	summary.Checks["api_key"] = strings.TrimSpace(app.Config.APIKey) != ""
	if !summary.Checks["api_key"] {
		summary.Missing = append(summary.Missing, chat.ErrMissingAPIKey.Error())
		summary.Suggestions = append(summary.Suggestions, "add GEMINI_API_KEY to a .env file")
	}

	summary.Checks["player"] = app.Player.Check() == nil
	if !summary.Checks["player"] {
		summary.Missing = append(summary.Missing, app.Player.Command())
		summary.Suggestions = append(summary.Suggestions, "install "+app.Player.Command())
	}

	stores := []struct {
		name  string
		check func() error
	}{
		{store.WatchlistFileName, func() error {
			doc, err := store.NewWatchlistFile(dataDir).Load()
			summary.Counts["watchlist"] = len(doc.Watchlist)
			return err
		}},
		{store.ReadlistFileName, func() error {
			doc, err := store.NewReadlistFile(dataDir).Load()
			summary.Counts["readlist"] = len(doc.Readlist)
			return err
		}},
		{store.GenresFileName, func() error {
			list, err := store.NewGenresFile(dataDir).Load()
			summary.Counts["genres"] = len(list)
			return err
		}},
		{chat.HistoryFileName, func() error {
			_, err := chat.NewHistoryFile(dataDir).Load()
			return err
		}},
	}
	storesOK := true
	for _, s := range stores {
		if err := s.check(); err != nil {
			storesOK = false
			summary.Missing = append(summary.Missing, "valid "+s.name)
			if store.IsCorrupt(err) {
				summary.Suggestions = append(summary.Suggestions, "fix or delete "+filepath.Join(dataDir, s.name))
			}
		}
	}
	summary.Checks["stores"] = storesOK

	if app.Config.Cache.Enabled {
		c, err := cache.Open(filepath.Join(dataDir, cache.FileName), app.Config.GetCacheTTL(), app.Logger)
		summary.Checks["cache"] = err == nil
		if err == nil {
			_ = c.Close()
		} else {
			summary.Missing = append(summary.Missing, "usable "+cache.FileName)
			summary.Suggestions = append(summary.Suggestions, "delete "+filepath.Join(dataDir, cache.FileName)+" or set cache.enabled: false")
		}
	}

	summary.Missing = fileutil.DedupeStrings(summary.Missing)
	sort.Strings(summary.Missing)
	summary.Suggestions = fileutil.DedupeStrings(summary.Suggestions)
	sort.Strings(summary.Suggestions)
	summary.Healthy = len(summary.Missing) == 0

	return PrintDoctorSummary(app.Out, summary, asJSON)
}

func dataDirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}
