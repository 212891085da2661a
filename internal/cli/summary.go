package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/actions"
	"github.com/kitsune-cli/kitsune/internal/fileutil"
	"github.com/kitsune-cli/kitsune/internal/store"
)

type WatchlistSummary struct {
	List    string             `json:"list"`
	Count   int                `json:"count"`
	Entries []store.WatchEntry `json:"entries"`
}

type ReadlistSummary struct {
	List    string            `json:"list"`
	Count   int               `json:"count"`
	Entries []store.ReadEntry `json:"entries"`
}

type DoctorSummary struct {
	Mode        string          `json:"mode"`
	DataDir     string          `json:"data_dir"`
	ConfigPath  string          `json:"config_path"`
	Healthy     bool            `json:"healthy"`
	Checks      map[string]bool `json:"checks"`
	Counts      map[string]int  `json:"counts,omitempty"`
	Missing     []string        `json:"missing,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

func PrintWatchlist(w io.Writer, entries []store.WatchEntry, asJSON bool) error {
	if asJSON {
		if entries == nil {
			entries = []store.WatchEntry{}
		}
		return fileutil.WriteJSON(w, WatchlistSummary{List: "watchlist", Count: len(entries), Entries: entries})
	}
	_, err := fmt.Fprintln(w, actions.FormatWatchlist(entries))
	return err
}

func PrintReadlist(w io.Writer, entries []store.ReadEntry, asJSON bool) error {
	if asJSON {
		if entries == nil {
			entries = []store.ReadEntry{}
		}
		return fileutil.WriteJSON(w, ReadlistSummary{List: "readlist", Count: len(entries), Entries: entries})
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Your readlist is empty.")
		return err
	}
	lines := []string{"Your manga readlist:"}
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s (Progress: %s)", e.Title, e.Progress))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func PrintDoctorSummary(w io.Writer, summary DoctorSummary, asJSON bool) error {
	if asJSON {
		return fileutil.WriteJSON(w, summary)
	}

	status := "issues"
	if summary.Healthy {
		status = "ok"
	}
	fmt.Fprintf(w, "doctor: %s\n", status)
	fmt.Fprintf(w, "data: %s\n", summary.DataDir)
	fmt.Fprintf(w, "config: %s\n", summary.ConfigPath)

	names := make([]string, 0, len(summary.Checks))
	for name := range summary.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%t", name, summary.Checks[name]))
	}
	fmt.Fprintf(w, "checks: %s\n", strings.Join(parts, " "))

	if len(summary.Counts) > 0 {
		fmt.Fprintf(w, "lists: watchlist=%d readlist=%d genres=%d\n",
			summary.Counts["watchlist"],
			summary.Counts["readlist"],
			summary.Counts["genres"],
		)
	}
	if len(summary.Missing) > 0 {
		fmt.Fprintf(w, "missing (%d): %s\n", len(summary.Missing), SummarizeTitles(summary.Missing, 8))
	}
	for _, suggestion := range summary.Suggestions {
		fmt.Fprintf(w, "next: %s\n", suggestion)
	}
	return nil
}

func SummarizeTitles(titles []string, max int) string {
	if len(titles) <= max {
		return strings.Join(titles, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(titles[:max], ", "), len(titles)-max)
}
