// Package config loads the whiteboard's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"MyWhiteboard/internal/state"
	"MyWhiteboard/internal/surface"
)

const appName = "mywhiteboard"

// ErrInvalid is returned by Validate and Load for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	Drawing DrawingConfig `yaml:"drawing"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// CanvasConfig sizes the drawing surface.
type CanvasConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// DrawingConfig holds the initial pen and the history limits.
type DrawingConfig struct {
	Color      string  `yaml:"color"`
	Width      float64 `yaml:"width"`
	MaxActions int     `yaml:"max_actions"` // primitives kept per saved drawing
	UndoDepth  int     `yaml:"undo_depth"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory, file, sqlite, redis
	Path        string `yaml:"path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the default configuration. Data lives in a sqlite file
// under the user's data directory.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      1000,
			Height:     600,
			Background: "white",
		},
		Drawing: DrawingConfig{
			Color:      "black",
			Width:      2,
			MaxActions: state.DefaultMaxActions,
			UndoDepth:  50,
		},
		Storage: StorageConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(dataDir(), "whiteboard.db"),
			RedisPrefix: "whiteboard:",
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/mywhiteboard/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+".yaml")
	}
	return filepath.Join(home, ".config", appName, "config.yaml")
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads the config file at path over the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	case c.Drawing.Width <= 0:
		return fmt.Errorf("%w: drawing width %v", ErrInvalid, c.Drawing.Width)
	case c.Drawing.MaxActions <= 0:
		return fmt.Errorf("%w: max_actions %d", ErrInvalid, c.Drawing.MaxActions)
	case c.Drawing.UndoDepth < 0:
		return fmt.Errorf("%w: undo_depth %d", ErrInvalid, c.Drawing.UndoDepth)
	}
	if _, err := surface.ParseColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := surface.ParseColor(c.Drawing.Color); err != nil {
		return fmt.Errorf("%w: pen color: %v", ErrInvalid, err)
	}
	switch c.Storage.Driver {
	case "memory":
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage driver %s needs a path", ErrInvalid, c.Storage.Driver)
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("%w: storage driver redis needs redis_addr", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage driver %q", ErrInvalid, c.Storage.Driver)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// LogLevel is the parsed Log.Level. Validate has already rejected bad values.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
