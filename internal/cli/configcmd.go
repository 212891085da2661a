package cli

import (
	"fmt"
	"os"

	"github.com/kitsune-cli/kitsune/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func RunConfigInit(cmd *cobra.Command, app *App, args []string) error {
	force, err := OptionalBoolFlag(cmd, "force", false)
	if err != nil {
		return err
	}
	if _, err := os.Stat(app.ConfigPath); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", app.ConfigPath)
	}
	if err := config.DefaultConfig().Save(app.ConfigPath); err != nil {
		return err
	}
	app.printf("Wrote default config to %s\n", app.ConfigPath)
	return nil
}

// RunConfigShow prints the effective configuration with the API key masked.
func RunConfigShow(cmd *cobra.Command, app *App, args []string) error {
	shown := *app.Config
	if shown.APIKey != "" {
		shown.APIKey = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	app.printf("# %s\n%s", app.ConfigPath, data)
	return nil
}
