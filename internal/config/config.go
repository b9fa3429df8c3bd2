package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Battery sources understood by service.NewReader.
const (
	SourceSysfs     = "sysfs"
	SourceUPower    = "upower"
	SourceSimulator = "simulator"
)

type Config struct {
	Source       string `yaml:"source"`
	PollInterval string `yaml:"poll_interval"`
	// Settings file observed by the widget; empty means settings.yaml next to this file.
	SettingsFile string `yaml:"settings_file,omitempty"`
	Locale       string `yaml:"locale"`
	Header       bool   `yaml:"header,omitempty"`
	ForceShow    bool   `yaml:"force_show,omitempty"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// Default returns the configuration written on first start.
func Default() *Config {
	return &Config{
		Source:       SourceSysfs,
		PollInterval: "2s",
		Locale:       "en",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Interval returns the parsed poll interval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// Language returns the parsed locale tag, English when unset or invalid.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// SettingsPath resolves the settings file location.
func (c *Config) SettingsPath() (string, error) {
	if c.SettingsFile != "" {
		return c.SettingsFile, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.yaml"), nil
}

// Validate reports the first unusable field.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceSysfs, SourceUPower, SourceSimulator:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("%w: poll_interval: %v", ErrInvalid, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalid)
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w: locale %q: %v", ErrInvalid, c.Locale, err)
	}
	return nil
}

// Dir returns ~/.config/batterytext, creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(home, ".config", "batterytext")
	_ = os.MkdirAll(path, 0755)
	return path, nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Save writes conf to path.
func Save(path string, conf *Config) error {
	data, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads path, writing the defaults there when it does not exist yet.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	conf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err := Save(path, conf); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return conf, nil
	}

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
