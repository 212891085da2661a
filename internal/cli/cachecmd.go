package cli

import (
	"path/filepath"

	"github.com/kitsune-cli/kitsune/internal/cache"
	"github.com/spf13/cobra"
)

// RunCachePrune drops expired catalog responses.
func RunCachePrune(cmd *cobra.Command, app *App, args []string) error {
	c, err := cache.Open(filepath.Join(app.Config.DataDir, cache.FileName), app.Config.GetCacheTTL(), app.Logger)
	if err != nil {
		return err
	}
	defer c.Close()

	removed, err := c.Prune(cmd.Context())
	if err != nil {
		return err
	}
	app.printf("Removed %d expired responses.\n", removed)
	return nil
}
