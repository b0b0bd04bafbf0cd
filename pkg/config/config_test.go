package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "terminal", cfg.Output.Format)
	assert.Equal(t, 1.0, cfg.Ingest.Scale)
	assert.Equal(t, 2, cfg.Sensitivity.Steps)
	assert.Equal(t, 0.001, cfg.Audit.Tolerance)
	assert.Equal(t, 1.0, cfg.Audit.OutlierThreshold)
}

func TestLoad_FileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "finmod.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output:
  format: html
ingest:
  scale: 1000
sensitivity:
  steps: 3
`), 0o600))
	t.Setenv("FINMOD_OUTPUT_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format, "environment wins over file")
	assert.Equal(t, 1000.0, cfg.Ingest.Scale)
	assert.Equal(t, 3, cfg.Sensitivity.Steps)
	assert.Equal(t, 0.01, cfg.Sensitivity.WACCStep)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINMOD_LOGGING_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FINMOD_LOGGING_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FINMOD_INGEST_SCALE", "0")

	_, err := Load("")
	assert.ErrorContains(t, err, "ingest.scale")
}
