package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batterytext/internal/config"
	"batterytext/internal/settings"
)

func runCmd(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	path := configPath
	var cmd = newGetCmd(&path)
	if args[0] == "set" {
		cmd = newSetCmd(&path)
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args[1:])
	err := cmd.Execute()
	return out.String(), err
}

func TestSetThenGet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCmd(t, configPath, "set", settings.KeyTextColor, "#00FF00")
	require.NoError(t, err)
	assert.Equal(t, settings.KeyTextColor+"=#FF00FF00\n", out)

	out, err = runCmd(t, configPath, "get", settings.KeyTextColor)
	require.NoError(t, err)
	assert.Equal(t, "#FF00FF00\n", out)

	out, err = runCmd(t, configPath, "get", settings.KeyPercentStyle)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestGetListsAllKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runCmd(t, configPath, "get")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(settings.Keys()))
	assert.Equal(t, settings.KeyPercentStyle+"=2", lines[0])
}

func TestUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCmd(t, configPath, "set", "status_bar_clock", "1")
	assert.ErrorIs(t, err, settings.ErrUnknownKey)

	_, err = runCmd(t, configPath, "get", "status_bar_clock")
	assert.ErrorIs(t, err, settings.ErrUnknownKey)
}

func TestSetRejectsBadValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runCmd(t, configPath, "set", settings.KeyMeterStyle, "text")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Setenv("BATTERYTEXT_LOG_LEVEL", "")
	conf := config.Default()
	conf.LogLevel = "warn"

	assert.Equal(t, zerolog.WarnLevel, newLogger(conf, false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(conf, true).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(nil, false).GetLevel())
}
