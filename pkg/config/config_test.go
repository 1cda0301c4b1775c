package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/aidwarf/pkg/config"
)

func TestLoad_DefaultsWhenNoConfigFilePresent(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.InlineDepth)
	assert.False(t, cfg.OmitInlined)
	assert.True(t, cfg.UseSourceMappings)
	assert.Equal(t, 5, cfg.DWARFVersion)
}

func TestLoad_ReadsExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aidwarf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("inline-depth: 3\nomit-inlined: true\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.InlineDepth)
	assert.True(t, cfg.OmitInlined)
}

func TestLoad_EnvironmentVariableOverridesDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AIDWARF_JIT_REGISTRATION", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.True(t, cfg.JITRegistration)
}
