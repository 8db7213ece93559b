package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFileOrEnv(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Config{}, cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
stack_max: 4096
frames_max: 32
gc_stress: true
gc_grow_factor: 3
`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 4096, cfg.StackMax)
	require.Equal(t, 32, cfg.FramesMax)
	require.True(t, cfg.GCStress)
	require.Equal(t, uint64(3), cfg.GCGrowFactor)
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`frames_max: 32`), 0o644))

	t.Setenv("FRAMES_MAX", "128")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.FramesMax)
}

func TestLimitsPassThrough(t *testing.T) {
	cfg := Config{StackMax: 1000, FramesMax: 10}
	limits := cfg.Limits()
	require.Equal(t, 1000, limits.StackMax)
	require.Equal(t, 10, limits.FramesMax)
}
