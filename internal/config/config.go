// Package config loads kitsune settings from config.yaml, .env files and the
// process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "kitsune"
	ConfigFileName = "config.yaml"
	EnvFileName    = ".env"

	EnvAPIKey  = "GEMINI_API_KEY"
	EnvDataDir = "KITSUNE_DATA_DIR"
	EnvModel   = "KITSUNE_MODEL"
	EnvConfig  = "KITSUNE_CONFIG"
)

// Config holds all kitsune configuration.
type Config struct {
	DataDir string `yaml:"data_dir"`
	Model   string `yaml:"model"`
	// APIKey is normally supplied through GEMINI_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`

	Log       LogConfig       `yaml:"log"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	Cache     CacheConfig     `yaml:"cache"`
	Watch     WatchConfig     `yaml:"watch"`
	Chat      ChatConfig      `yaml:"chat"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

type CatalogConfig struct {
	JikanURL    string `yaml:"jikan_url"`
	AniListURL  string `yaml:"anilist_url"`
	Timeout     string `yaml:"timeout"`
	SearchLimit int    `yaml:"search_limit"`
}

type RecommendConfig struct {
	PerGenre    int `yaml:"per_genre"`
	Concurrency int `yaml:"concurrency"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
}

type WatchConfig struct {
	Player         string `yaml:"player"`
	FallbackSearch bool   `yaml:"fallback_search"`
}

type ChatConfig struct {
	MaxActionRounds int `yaml:"max_action_rounds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Model:   "gemini-2.5-flash-lite",
		Log: LogConfig{
			Level: "warn",
		},
		Catalog: CatalogConfig{
			JikanURL:    "https://api.jikan.moe/v4",
			AniListURL:  "https://graphql.anilist.co",
			Timeout:     "15s",
			SearchLimit: 10,
		},
		Recommend: RecommendConfig{
			PerGenre:    5,
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "6h",
		},
		Watch: WatchConfig{
			Player:         "ani-cli",
			FallbackSearch: false,
		},
		Chat: ChatConfig{
			MaxActionRounds: 4,
		},
	}
}

// Load loads configuration from a YAML file, then applies .env files and
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	loadEnvFiles(filepath.Dir(path))
	cfg.applyEnvOverrides()
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// loadEnvFiles reads .env from the working directory and the config
// directory. godotenv never overrides variables that are already set, so the
// real environment wins, then the working directory, then the config directory.
func loadEnvFiles(configDir string) {
	candidates := []string{EnvFileName}
	if configDir != "" && configDir != "." {
		candidates = append(candidates, filepath.Join(configDir, EnvFileName))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		_ = godotenv.Load(candidate)
	}
}

func (c *Config) applyEnvOverrides() {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.APIKey = key
	}
	if dir := strings.TrimSpace(os.Getenv(EnvDataDir)); dir != "" {
		c.DataDir = dir
	}
	if model := strings.TrimSpace(os.Getenv(EnvModel)); model != "" {
		c.Model = model
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Catalog.SearchLimit < 1 {
		return fmt.Errorf("catalog.search_limit must be >= 1")
	}
	if c.Recommend.PerGenre < 1 {
		return fmt.Errorf("recommend.per_genre must be >= 1")
	}
	if c.Chat.MaxActionRounds < 1 {
		return fmt.Errorf("chat.max_action_rounds must be >= 1")
	}
	if _, err := parseDuration(c.Catalog.Timeout, "catalog.timeout"); err != nil {
		return err
	}
	if _, err := parseDuration(c.Cache.TTL, "cache.ttl"); err != nil {
		return err
	}
	return nil
}

// GetCatalogTimeout returns the HTTP timeout for catalog requests.
func (c *Config) GetCatalogTimeout() time.Duration {
	d, err := parseDuration(c.Catalog.Timeout, "catalog.timeout")
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetCacheTTL returns how long catalog responses are reused.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := parseDuration(c.Cache.TTL, "cache.ttl")
	if err != nil || d <= 0 {
		return 6 * time.Hour
	}
	return d
}

func parseDuration(raw, key string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/kitsune/config.yaml, honoring
// KITSUNE_CONFIG when set.
func DefaultConfigPath() string {
	if path := strings.TrimSpace(os.Getenv(EnvConfig)); path != "" {
		return expandHome(path)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, AppName, ConfigFileName)
}

// DefaultDataDir returns $XDG_DATA_HOME/kitsune or ~/.local/share/kitsune.
func DefaultDataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
