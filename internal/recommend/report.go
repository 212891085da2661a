package recommend

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/kitsune-cli/kitsune/internal/catalog"
	"github.com/kitsune-cli/kitsune/internal/fileutil"
)

const DumpFileName = "recommendations.txt"

// WriteDump writes the plain-text form saved to recommendations.txt.
func WriteDump(w io.Writer, result Result) error {
	if _, err := fmt.Fprintf(w, "Anime recommendations for genres: %s\n\n", strings.Join(result.Genres, ", ")); err != nil {
		return err
	}
	for _, group := range result.Groups {
		for _, m := range group.Media {
			if err := writeMedia(w, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeMedia(w io.Writer, m catalog.Media) error {
	_, err := fmt.Fprintf(w, "%s\n  + Genres: %s\n  + Score: %s\n\n",
		m.DisplayTitle(),
		strings.Join(m.Genres, ", "),
		formatScore(m.AverageScore),
	)
	return err
}

// SaveDump replaces dataDir/recommendations.txt and returns its path.
func SaveDump(dataDir string, result Result) (string, error) {
	var buf bytes.Buffer
	if err := WriteDump(&buf, result); err != nil {
		return "", err
	}
	path := filepath.Join(dataDir, DumpFileName)
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save recommendations: %w", err)
	}
	return path, nil
}

// WriteGroups prints every group under its own header, including the
// "No recommendations found" line for empty groups and the error line for
// failed ones.
func WriteGroups(w io.Writer, result Result) error {
	for _, group := range result.Groups {
		if _, err := fmt.Fprintf(w, "\n--- Recommendations for %s ---\n", group.Label()); err != nil {
			return err
		}
		switch {
		case group.Err != nil:
			if _, err := fmt.Fprintf(w, "An error occurred while searching for %s: %v\n", group.Label(), group.Err); err != nil {
				return err
			}
		case len(group.Media) == 0:
			if _, err := fmt.Fprintf(w, "No recommendations found for %s.\n", group.Label()); err != nil {
				return err
			}
		default:
			for _, m := range group.Media {
				if err := writeMedia(w, m); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func formatScore(score int) string {
	if score <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", score)
}
