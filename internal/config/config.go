package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/u7wells/flowo/internal/store"
)

const (
	appName    = "flowo"
	configFile = "config.yaml"

	// EnvPath overrides the config file location.
	EnvPath = "FLOWO_CONFIG"
)

type Config struct {
	Database      DatabaseConfig      `yaml:"database"`
	Logging       LoggingConfig       `yaml:"logging"`
	Calendar      CalendarConfig      `yaml:"calendar"`
	Export        ExportConfig        `yaml:"export"`
	Notifications NotificationsConfig `yaml:"notifications"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Development bool   `yaml:"development"`
	File        string `yaml:"file"`
}

type CalendarConfig struct {
	WeekStart string `yaml:"week_start"` // "monday" or "sunday"
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

type NotificationsConfig struct {
	Horizon time.Duration `yaml:"horizon"`
}

// Dir returns ~/.config/flowo
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, appName), nil
}

// Path returns $FLOWO_CONFIG, or ~/.config/flowo/config.yaml
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the configuration used when no file exists.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		Database:      DatabaseConfig{Path: dbPath},
		Logging:       LoggingConfig{File: filepath.Join(dir, "flowo.log")},
		Calendar:      CalendarConfig{WeekStart: "monday"},
		Export:        ExportConfig{Dir: home},
		Notifications: NotificationsConfig{Horizon: 24 * time.Hour},
	}, nil
}

// Load reads the config at path over the defaults. A missing file gives the
// defaults; keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if _, ok := weekStarts[strings.ToLower(c.Calendar.WeekStart)]; !ok {
		return fmt.Errorf("calendar.week_start: unknown day %q", c.Calendar.WeekStart)
	}
	if c.Notifications.Horizon <= 0 {
		return fmt.Errorf("notifications.horizon: must be positive, got %s", c.Notifications.Horizon)
	}
	if c.Database.Path == "" {
		return errors.New("database.path: empty")
	}
	return nil
}

var weekStarts = map[string]time.Weekday{
	"monday": time.Monday,
	"sunday": time.Sunday,
}

// WeekStart returns the first day of a calendar week.
func (c *Config) WeekStart() time.Weekday {
	if d, ok := weekStarts[strings.ToLower(c.Calendar.WeekStart)]; ok {
		return d
	}
	return time.Monday
}
