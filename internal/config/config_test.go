package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]string{"model.spim"})
	require.NoError(t, err)
	assert.Equal(t, "model.spim", cfg.SourcePath)
	assert.Equal(t, "trace.csv", cfg.OutputPath)
	assert.Equal(t, uint64(1), cfg.Seed)
	assert.Equal(t, 1000, cfg.Steps)
}

func TestParseExplicitFlags(t *testing.T) {
	cfg, err := Parse([]string{"-o", "out.csv", "-seed", "42", "-steps", "50", "model.spim"})
	require.NoError(t, err)
	assert.Equal(t, "out.csv", cfg.OutputPath)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 50, cfg.Steps)
}

func TestParseRequiresExactlyOneSourceFile(t *testing.T) {
	_, err := Parse([]string{})
	assert.Error(t, err)

	_, err = Parse([]string{"a.spim", "b.spim"})
	assert.Error(t, err)
}

func TestParseYAMLDefaultsDontOverrideExplicitFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: 7\nsteps: 30\n"), 0o644))

	cfg, err := Parse([]string{"-config", path, "-seed", "99", "model.spim"})
	require.NoError(t, err)
	assert.Equal(t, uint64(99), cfg.Seed, "explicit -seed must win over the file default")
	assert.Equal(t, 30, cfg.Steps, "unset -steps should fall back to the file default")
}
