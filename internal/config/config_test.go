package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_LoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, "speclock.yaml", "backend: z3\nparallelism: 3\ntimeout: 1500ms\nformat: json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "z3", cfg.Backend)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Static)
	assert.NoError(t, cfg.Validate())
}

func Test_Validate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Backend = "cvc5"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Parallelism = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Format = "junit"
	assert.Error(t, cfg.Validate())
}

func Test_Constants(t *testing.T) {
	cfg := Default()
	cfg.ConstantsFile = writeFile(t, "constants.yaml", "CAP: \"1_000\"\nMAX_MONEY: \"0x10\"\n")

	constants, err := cfg.Constants()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), constants["CAP"])
	assert.Equal(t, int64(16), constants["MAX_MONEY"])
	assert.Equal(t, int64(210_000), constants["HALVING_INTERVAL"])

	cfg.ConstantsFile = writeFile(t, "bad.yaml", "CAP: \"ten\"\n")
	_, err = cfg.Constants()
	assert.Error(t, err)
}

func Test_LoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
