package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/snapwatch/snapwatch/internal/config"
)

// resetFlags clears package-level flag state between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	prev := configPath
	configPath = ""
	t.Cleanup(func() { configPath = prev })
}

func TestConfigShowCmd_PrintsEffectiveConfig(t *testing.T) {
	resetFlags(t)

	// Given: a config file with a custom watch dir
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("watch_dir: /shots\n"), 0o644))

	cmd := newConfigShowCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	// When: showing
	require.NoError(t, cmd.Execute())

	// Then: output is YAML with the merged values
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &cfg))
	assert.Equal(t, "/shots", cfg.WatchDir)
	assert.Equal(t, config.DefaultExtensions, cfg.Extensions)
}

func TestConfigInitCmd_WritesDefaults(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "config.yaml")

	cmd := newConfigInitCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())

	// Then: the file exists and loads back as valid defaults
	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Contains(t, buf.String(), configPath)
}

func TestConfigInitCmd_RefusesOverwriteWithoutForce(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("watch_dir: /keep\n"), 0o644))

	cmd := newConfigInitCmd()
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Existing content untouched
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/keep")
}

func TestConfigInitCmd_ForceOverwrites(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("watch_dir: /old\n"), 0o644))

	cmd := newConfigInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--force"})

	require.NoError(t, cmd.Execute())

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.NotEqual(t, "/old", cfg.WatchDir)
}
