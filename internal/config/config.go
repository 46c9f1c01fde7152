package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "navisync"

// Environment variables that take precedence over the config file.
const (
	EnvServerURL = "NAVISYNC_SERVER_URL"
	EnvUsername  = "NAVISYNC_USERNAME"
	EnvPassword  = "NAVISYNC_PASSWORD"
)

const (
	DefaultSearchCount  = 50
	DefaultTimeout      = 30 * time.Second
	DefaultCacheBackend = "json"
	DefaultLogLevel     = "info"
)

var ErrUnknownKey = errors.New("unknown config key")

type Config struct {
	ServerURL           string `yaml:"serverUrl"`
	Username            string `yaml:"username"`
	Password            string `yaml:"password"`
	LocalPlaylistsPath  string `yaml:"localPlaylistsPath"`
	RemotePlaylistsPath string `yaml:"remotePlaylistsPath"`

	LogLevel          string        `yaml:"logLevel"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	CacheBackend      string        `yaml:"cacheBackend"`
	CachePath         string        `yaml:"cachePath"`
	SearchCount       int           `yaml:"searchCount"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DefaultPath is config.yaml under the user's XDG config directory.
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, "config.yaml"))
}

// Load reads path, applies .env and environment overrides, fills defaults and
// creates the playlist and cache directories. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		c.Username = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		c.Password = v
	}
}

func (c *Config) applyDefaults() {
	dataDir := filepath.Join(xdg.DataHome, appName)
	if c.LocalPlaylistsPath == "" {
		c.LocalPlaylistsPath = filepath.Join(dataDir, "local_playlists")
	}
	if c.RemotePlaylistsPath == "" {
		c.RemotePlaylistsPath = filepath.Join(dataDir, "remote_playlists")
	}
	if c.CachePath == "" {
		c.CachePath = filepath.Join(xdg.CacheHome, appName)
	}
	if c.CacheBackend == "" {
		c.CacheBackend = DefaultCacheBackend
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.SearchCount <= 0 {
		c.SearchCount = DefaultSearchCount
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// EnsureDirs creates the playlist and cache directories if they are missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.LocalPlaylistsPath, c.RemotePlaylistsPath, c.CachePath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Save writes the config as YAML. The file holds the password, so it is
// only readable by the owner.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Complete reports whether the connection settings are all filled in.
func (c *Config) Complete() bool {
	return c.ServerURL != "" && c.Username != "" && c.Password != ""
}

// SnapshotPath is where the song cache snapshot lives for the configured backend.
func (c *Config) SnapshotPath() string {
	if c.CacheBackend == "sqlite" {
		return filepath.Join(c.CachePath, "song_cache.db")
	}
	return filepath.Join(c.CachePath, "song_cache.json")
}

// ResultsPath is where check results are kept between runs.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.CachePath, "check_results.json")
}

// Keys lists the settable keys in display order.
var Keys = []string{
	"serverUrl", "username", "password", "localPlaylistsPath", "remotePlaylistsPath",
	"logLevel", "requestsPerSecond", "cacheBackend", "cachePath", "searchCount", "timeout",
}

func (c *Config) Get(key string) (string, error) {
	switch key {
	case "serverUrl":
		return c.ServerURL, nil
	case "username":
		return c.Username, nil
	case "password":
		return c.Password, nil
	case "localPlaylistsPath":
		return c.LocalPlaylistsPath, nil
	case "remotePlaylistsPath":
		return c.RemotePlaylistsPath, nil
	case "logLevel":
		return c.LogLevel, nil
	case "requestsPerSecond":
		return strconv.FormatFloat(c.RequestsPerSecond, 'f', -1, 64), nil
	case "cacheBackend":
		return c.CacheBackend, nil
	case "cachePath":
		return c.CachePath, nil
	case "searchCount":
		return strconv.Itoa(c.SearchCount), nil
	case "timeout":
		return c.Timeout.String(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Set updates one key from its string form. changed reports whether a
// connection setting (server, username or password) now has a different
// value, which makes any cached catalog stale.
func (c *Config) Set(key, value string) (changed bool, err error) {
	value = strings.TrimSpace(value)

	switch key {
	case "serverUrl":
		changed = c.ServerURL != value
		c.ServerURL = value
	case "username":
		changed = c.Username != value
		c.Username = value
	case "password":
		changed = c.Password != value
		c.Password = value
	case "localPlaylistsPath":
		c.LocalPlaylistsPath = value
	case "remotePlaylistsPath":
		c.RemotePlaylistsPath = value
	case "logLevel":
		c.LogLevel = value
	case "requestsPerSecond":
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps < 0 {
			return false, fmt.Errorf("requestsPerSecond must be a non-negative number: %q", value)
		}
		c.RequestsPerSecond = rps
	case "cacheBackend":
		if value != "json" && value != "sqlite" {
			return false, fmt.Errorf("cacheBackend must be json or sqlite: %q", value)
		}
		c.CacheBackend = value
	case "cachePath":
		c.CachePath = value
	case "searchCount":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return false, fmt.Errorf("searchCount must be a positive integer: %q", value)
		}
		c.SearchCount = n
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return false, fmt.Errorf("timeout must be a positive duration: %q", value)
		}
		c.Timeout = d
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return changed, nil
}
