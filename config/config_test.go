// Copyright © 2024 The Lithium authors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "lithium", c.Lithium.Command)
	assert.Empty(t, c.Lithium.Opts)
	assert.Equal(t, 20, c.Complete.MaxVariants)
	assert.Equal(t, []string{"java.", "javax."}, c.Imports.StandardPrefixes)
	assert.Equal(t, ".lithium/problems.json", c.Problems.File)
	assert.Len(t, c.Location.Patterns, 2)
	assert.Equal(t, 1, c.Log.Verbosity())
	assert.True(t, c.SyntaxEnabled("kotlin"))
	assert.False(t, c.SyntaxEnabled("python"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lithium.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
lithium:
  command: /opt/lithium/bin/lithium
  opts:
    std: none
log:
  debug: true
complete:
  max_variants: 5
syntaxes: [java]
`), 0o644))

	c, err := Load(viper.New(), file)
	require.NoError(t, err)
	assert.Equal(t, "/opt/lithium/bin/lithium", c.Lithium.Command)
	assert.Equal(t, map[string]string{"std": "none"}, c.Lithium.Opts)
	assert.Equal(t, 5, c.Complete.MaxVariants)
	assert.Equal(t, 2, c.Log.Verbosity())
	assert.Equal(t, []string{"java"}, c.Syntaxes)
	assert.Equal(t, "lithium", Default().Lithium.Command)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LITHIUM_LITHIUM_COMMAND", "lithium-dev")
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "lithium-dev", c.Lithium.Command)
}

func TestVerbosity(t *testing.T) {
	assert.Equal(t, -1, Log{}.Verbosity())
	assert.Equal(t, 0, Log{Warning: true}.Verbosity())
}
