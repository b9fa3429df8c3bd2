package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), conf)

	_, err = os.Stat(path)
	require.NoError(t, err, "default config should be written")
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: simulator\npoll_interval: 500ms\n"), 0644))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceSimulator, conf.Source)
	assert.Equal(t, 500*time.Millisecond, conf.Interval())
	assert.Equal(t, "en", conf.Locale)
	assert.Equal(t, language.English, conf.Language())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"upower", func(c *Config) { c.Source = SourceUPower }, true},
		{"unknown source", func(c *Config) { c.Source = "acpi" }, false},
		{"bad interval", func(c *Config) { c.PollInterval = "soon" }, false},
		{"zero interval", func(c *Config) { c.PollInterval = "0s" }, false},
		{"bad locale", func(c *Config) { c.Locale = "!!" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestSettingsPathOverride(t *testing.T) {
	c := Default()
	c.SettingsFile = "/tmp/custom.yaml"

	path, err := c.SettingsPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml", path)
}
