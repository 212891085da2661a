package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model)
	assert.Equal(t, filepath.Join("/tmp/xdg-data", AppName), cfg.DataDir)
	assert.Equal(t, 10, cfg.Catalog.SearchLimit)
	assert.Equal(t, "ani-cli", cfg.Watch.Player)
	assert.False(t, cfg.Watch.FallbackSearch)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/kitsune
model: gemini-2.5-pro
catalog:
  search_limit: 3
  timeout: 2s
watch:
  player: mpv-wrapper
  fallback_search: true
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/kitsune", cfg.DataDir)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 3, cfg.Catalog.SearchLimit)
	assert.Equal(t, 2*time.Second, cfg.GetCatalogTimeout())
	assert.Equal(t, "mpv-wrapper", cfg.Watch.Player)
	assert.True(t, cfg.Watch.FallbackSearch)
	// Untouched sections keep their defaults.
	assert.Equal(t, "https://graphql.anilist.co", cfg.Catalog.AniListURL)
	assert.Equal(t, 5, cfg.Recommend.PerGenre)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("model: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "env-key")
		t.Setenv(EnvDataDir, "/env/data")
		t.Setenv(EnvModel, "env-model")

		cfg := &Config{APIKey: "file-key", DataDir: "/file/data", Model: "file-model"}
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, "/env/data", cfg.DataDir)
		assert.Equal(t, "env-model", cfg.Model)
	})

	t.Run("blank environment keeps file values", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "  ")
		t.Setenv(EnvDataDir, "")
		t.Setenv(EnvModel, "")

		cfg := &Config{APIKey: "file-key", DataDir: "/file/data", Model: "file-model"}
		cfg.applyEnvOverrides()

		assert.Equal(t, "file-key", cfg.APIKey)
		assert.Equal(t, "/file/data", cfg.DataDir)
		assert.Equal(t, "file-model", cfg.Model)
	})
}

func TestLoad_ReadsDotEnvBesideConfig(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")
	require.NoError(t, os.Unsetenv(EnvAPIKey))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFileName), []byte("GEMINI_API_KEY=from-dotenv\n"), 0600))

	cfg, err := Load(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.APIKey)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvModel, "")

	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	cfg := DefaultConfig()
	cfg.DataDir = "/data/kitsune"
	cfg.Recommend.PerGenre = 8
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty data dir", func(c *Config) { c.DataDir = " " }, "data_dir"},
		{"zero search limit", func(c *Config) { c.Catalog.SearchLimit = 0 }, "search_limit"},
		{"zero per genre", func(c *Config) { c.Recommend.PerGenre = 0 }, "per_genre"},
		{"zero action rounds", func(c *Config) { c.Chat.MaxActionRounds = 0 }, "max_action_rounds"},
		{"bad timeout", func(c *Config) { c.Catalog.Timeout = "soon" }, "catalog.timeout"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }, "cache.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
