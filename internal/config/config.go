package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override, e.g. BACKLOG_API_BASE.
const EnvPrefix = "BACKLOG"

// Config holds runtime settings for backlog.
type Config struct {
	APIBase           string        `envconfig:"API_BASE"`
	CatalogPath       string        `envconfig:"CATALOG_PATH"`
	SavePath          string        `envconfig:"SAVE_PATH"`
	DataDir           string        `envconfig:"DATA_DIR"`
	LogLevel          string        `envconfig:"LOG_LEVEL"`
	ViewCacheSize     int           `envconfig:"VIEW_CACHE_SIZE"`
	ViewCacheTTL      time.Duration `envconfig:"VIEW_CACHE_TTL"`
	CompletedCacheTTL time.Duration `envconfig:"COMPLETED_CACHE_TTL"`
	ProbeInterval     time.Duration `envconfig:"PROBE_INTERVAL"`
	MetricsAddr       string        `envconfig:"METRICS_ADDR"`
}

const (
	defaultConfigPath        = "~/.config/backlog/config.toml"
	defaultAPIBase           = "http://127.0.0.1:5173"
	defaultCatalogPath       = "/games.json"
	defaultSavePath          = "/api/games"
	defaultDataDir           = "~/.local/share/backlog"
	defaultLogLevel          = "info"
	defaultViewCacheSize     = 50
	defaultViewCacheTTL      = 5 * time.Minute
	defaultCompletedCacheTTL = 2 * time.Second
	defaultProbeInterval     = 5 * time.Second
)

// Default returns the built-in settings with paths expanded.
func Default() Config {
	return Config{
		APIBase:           defaultAPIBase,
		CatalogPath:       defaultCatalogPath,
		SavePath:          defaultSavePath,
		DataDir:           mustExpand(defaultDataDir),
		LogLevel:          defaultLogLevel,
		ViewCacheSize:     defaultViewCacheSize,
		ViewCacheTTL:      defaultViewCacheTTL,
		CompletedCacheTTL: defaultCompletedCacheTTL,
		ProbeInterval:     defaultProbeInterval,
	}
}

// Load reads the TOML file at path (or the default location), then applies
// BACKLOG_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := applyFile(&cfg, resolved); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string `toml:"api_base"`
		CatalogPath       string `toml:"catalog_path"`
		SavePath          string `toml:"save_path"`
		DataDir           string `toml:"data_dir"`
		LogLevel          string `toml:"log_level"`
		ViewCacheSize     int    `toml:"view_cache_size"`
		ViewCacheTTL      string `toml:"view_cache_ttl"`
		CompletedCacheTTL string `toml:"completed_cache_ttl"`
		ProbeInterval     string `toml:"probe_interval"`
		MetricsAddr       string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIBase, raw.APIBase)
	setString(&cfg.CatalogPath, raw.CatalogPath)
	setString(&cfg.SavePath, raw.SavePath)
	setString(&cfg.DataDir, raw.DataDir)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.MetricsAddr, raw.MetricsAddr)
	if raw.ViewCacheSize > 0 {
		cfg.ViewCacheSize = raw.ViewCacheSize
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"view_cache_ttl", raw.ViewCacheTTL, &cfg.ViewCacheTTL},
		{"completed_cache_ttl", raw.CompletedCacheTTL, &cfg.CompletedCacheTTL},
		{"probe_interval", raw.ProbeInterval, &cfg.ProbeInterval},
	} {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) normalize() {
	def := Default()
	c.APIBase = orDefault(c.APIBase, def.APIBase)
	c.CatalogPath = orDefault(c.CatalogPath, def.CatalogPath)
	c.SavePath = orDefault(c.SavePath, def.SavePath)
	c.LogLevel = strings.ToLower(orDefault(c.LogLevel, def.LogLevel))
	c.DataDir = mustExpand(orDefault(c.DataDir, defaultDataDir))
	c.MetricsAddr = strings.TrimSpace(c.MetricsAddr)
	if c.ViewCacheSize <= 0 {
		c.ViewCacheSize = def.ViewCacheSize
	}
	if c.ViewCacheTTL < 0 {
		c.ViewCacheTTL = def.ViewCacheTTL
	}
	if c.CompletedCacheTTL <= 0 {
		c.CompletedCacheTTL = def.CompletedCacheTTL
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = def.ProbeInterval
	}
}

// QueuePath is the offline queue database.
func (c Config) QueuePath() string {
	return filepath.Join(c.dataDir(), "offline.db")
}

// LogPath is the application log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "backlog.log")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
